// Package vmodule models build-time virtual modules: importable units whose
// contents are generated by code instead of read from disk.
//
// A Plugin claims well-known ids in Resolve and produces their generated
// source in Load. A Host keeps an ordered set of plugins and answers imports
// by asking each plugin in registration order, the first resolver wins.
//
//	host := vmodule.NewHost()
//	_ = host.Register(images.NewPlugin(provider))
//	src, err := host.Load(ctx, "virtual:image-list")
//	fmt.Println(src.Code) // export default ["/images/a.jpg"];
package vmodule

import (
	"context"
	"encoding/json"
	"strings"
)

// virtualPrefix marks an id as produced by a plugin rather than a file path.
const virtualPrefix = "\x00"

// ResolvedID is the id a plugin hands back from Resolve and expects in Load.
type ResolvedID string

// Virtual returns the resolved form of a well-known virtual id.
func Virtual(id string) ResolvedID {
	return ResolvedID(virtualPrefix + id)
}

// IsVirtual reports whether the id carries the virtual marker.
func (r ResolvedID) IsVirtual() bool {
	return strings.HasPrefix(string(r), virtualPrefix)
}

// ID returns the id without the virtual marker.
func (r ResolvedID) ID() string {
	return strings.TrimPrefix(string(r), virtualPrefix)
}

// String implements fmt.Stringer. The marker byte is not printable, so it is dropped.
func (r ResolvedID) String() string {
	return r.ID()
}

// Source is the generated content of a virtual module.
type Source struct {
	// Code is the generated ES module text.
	Code string
	// Data is the value Code exports as default, for consumers that do not
	// evaluate JavaScript (Hugo data files, the JSON API).
	Data any
}

// ESModule builds a Source whose code default-exports data as JSON.
func ESModule(data any) (Source, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return Source{}, err
	}
	return Source{
		Code: "export default " + string(encoded) + ";\n",
		Data: data,
	}, nil
}

// Plugin resolves and loads virtual modules.
type Plugin interface {
	// Name identifies the plugin in logs and registration errors.
	Name() string

	// Resolve claims an import id. ok is false when the id is not handled.
	Resolve(id string) (resolved ResolvedID, ok bool)

	// Load produces the source for an id previously returned by Resolve.
	// ok is false when the plugin declines to load it.
	Load(ctx context.Context, id ResolvedID) (src Source, ok bool, err error)
}

// Lister is implemented by plugins that can enumerate the ids they serve.
type Lister interface {
	IDs() []string
}
