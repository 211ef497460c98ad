package constants_test

import (
	"fmt"
	"path/filepath"

	"github.com/agentstation/docsite/pkg/constants"
)

// Example demonstrates building site paths from the layout constants
func Example() {
	root := "site"

	fmt.Println(filepath.ToSlash(filepath.Join(root, constants.SiteConfigFile)))
	fmt.Println(filepath.ToSlash(filepath.Join(root, constants.ImagesDir)))
	fmt.Println(constants.ImagesURLPrefix + "/logo.png")
	// Output:
	// site/site.yaml
	// site/public/images
	// /images/logo.png
}

// Example_permissions demonstrates the file permission constants
func Example_permissions() {
	fmt.Printf("dirs %o, files %o\n", constants.DirPermissions, constants.FilePermissions)
	// Output:
	// dirs 755, files 644
}
