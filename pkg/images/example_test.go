package images_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentstation/docsite/pkg/images"
)

func Example() {
	dir, _ := os.MkdirTemp("", "images")
	defer os.RemoveAll(dir)

	for _, name := range []string{"b.PNG", "a.jpg", "c.txt", "A.svg"} {
		_ = os.WriteFile(filepath.Join(dir, name), nil, 0o644)
	}

	provider := images.NewProvider(dir)
	for _, url := range provider.Manifest(context.Background()) {
		fmt.Println(url)
	}
	// Output:
	// /images/a.jpg
	// /images/A.svg
	// /images/b.PNG
}
