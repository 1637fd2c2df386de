package datapack

import (
	"path"
	"strings"

	"github.com/ardnew/mcmacros/lang"
)

var ErrFunctionID = lang.NewError("malformed function id")

// FunctionExt is the file extension of a function.
const FunctionExt = ".mcfunction"

// MetaPath is the datapack-relative path of the pack metadata.
const MetaPath = "pack.mcmeta"

// FunctionPath returns the datapack-relative path, with forward slashes, of
// function name in namespace ns.
func FunctionPath(ns, name string) string {
	return path.Join("data", ns, "functions", name+FunctionExt)
}

// TagPath returns the datapack-relative path of a minecraft function tag.
func TagPath(tag string) string {
	return path.Join("data", "minecraft", "tags", "functions", tag+".json")
}

// SplitID splits a resource location "namespace:path".
func SplitID(id string) (ns, name string, err error) {
	ns, name, ok := strings.Cut(id, ":")
	if !ok || ns == "" || name == "" || strings.Contains(name, ":") {
		return "", "", ErrFunctionID.Wrapf("%q", id)
	}

	return ns, name, nil
}

// FunctionFiles converts function bodies keyed by resource location into
// file contents keyed by datapack-relative path.
func FunctionFiles(functions map[string]string) (map[string]string, error) {
	files := make(map[string]string, len(functions))

	for id, text := range functions {
		ns, name, err := SplitID(id)
		if err != nil {
			return nil, err
		}

		files[FunctionPath(ns, name)] = text
	}

	return files, nil
}
