package datapack

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/ardnew/mcmacros/lang"
	"github.com/ardnew/mcmacros/log"
)

var ErrWrite = lang.NewError("cannot write datapack")

// Defaults for a pack.mcmeta created from scratch.
const (
	DefaultPackFormat  = 1
	DefaultDescription = "datapack"
)

// Tag is a function tag document.
type Tag struct {
	Replace bool  `json:"replace,omitempty"`
	Values  []any `json:"values"`
}

// Contains reports whether the tag lists function id, either as a plain
// entry or as an {"id": ...} object.
func (t *Tag) Contains(id string) bool {
	return slices.ContainsFunc(t.Values, func(v any) bool {
		switch e := v.(type) {
		case string:
			return e == id
		case map[string]any:
			return e["id"] == id
		}

		return false
	})
}

// Documents are the JSON documents of a datapack that a build updates.
type Documents struct {
	// Meta is the content of pack.mcmeta. Fields other than those this
	// package sets are kept as read.
	Meta map[string]any
	Tags map[string]*Tag
}

type config struct {
	logger      log.Logger
	description string
	packFormat  int
}

// Option configures [Load].
type Option func(*config)

// WithPackFormat sets the pack format of a new pack.mcmeta.
func WithPackFormat(n int) Option { return func(c *config) { c.packFormat = n } }

// WithDescription sets the description of a new pack.mcmeta.
func WithDescription(s string) Option { return func(c *config) { c.description = s } }

// WithLogger sets the logger reporting unreadable documents.
func WithLogger(l log.Logger) Option { return func(c *config) { c.logger = l } }

// NewDocuments returns the documents of an empty datapack with the given tags.
func NewDocuments(tags []string, opts ...Option) *Documents {
	c := makeConfig(opts)

	d := &Documents{
		Meta: map[string]any{
			"pack": map[string]any{
				"pack_format": c.packFormat,
				"description": c.description,
			},
		},
		Tags: make(map[string]*Tag, len(tags)),
	}

	for _, tag := range tags {
		d.Tags[tag] = &Tag{Values: []any{}}
	}

	return d
}

func makeConfig(opts []Option) config {
	c := config{
		logger:      log.Default(),
		description: DefaultDescription,
		packFormat:  DefaultPackFormat,
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// Load reads the documents of the datapack in dir. A missing document gets
// its default content; an unreadable or invalid one is logged and replaced
// by its default.
func Load(dir string, tags []string, opts ...Option) *Documents {
	c := makeConfig(opts)
	d := NewDocuments(tags, opts...)

	var meta map[string]any
	if readJSON(c.logger, filepath.Join(dir, filepath.FromSlash(MetaPath)), &meta) {
		d.Meta = meta
	}

	for _, tag := range tags {
		var t Tag
		if readJSON(c.logger, filepath.Join(dir, filepath.FromSlash(TagPath(tag))), &t) {
			if t.Values == nil {
				t.Values = []any{}
			}

			d.Tags[tag] = &t
		}
	}

	return d
}

func readJSON(logger log.Logger, path string, v any) bool {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}

	if err == nil {
		err = json.Unmarshal(data, v)
	}

	if err != nil {
		logger.Warn("ignoring datapack document",
			slog.String("path", path),
			slog.Any("error", err))

		return false
	}

	return true
}

// MergeTags adds each function listed in tags to the tag of that name,
// skipping functions already present. Tags without a document are created.
func (d *Documents) MergeTags(tags map[string][]string) {
	for _, name := range slices.Sorted(maps.Keys(tags)) {
		t, ok := d.Tags[name]
		if !ok {
			t = &Tag{Values: []any{}}
			d.Tags[name] = t
		}

		for _, id := range tags[name] {
			if !t.Contains(id) {
				t.Values = append(t.Values, id)
			}
		}
	}
}

// Files returns the documents encoded as indented JSON, keyed by
// datapack-relative path.
func (d *Documents) Files() (map[string]string, error) {
	files := make(map[string]string, len(d.Tags)+1)

	data, err := json.MarshalIndent(d.Meta, "", " ")
	if err != nil {
		return nil, ErrWrite.Wrap(err)
	}

	files[MetaPath] = string(data)

	for name, t := range d.Tags {
		data, err := json.MarshalIndent(t, "", " ")
		if err != nil {
			return nil, ErrWrite.Wrap(err)
		}

		files[TagPath(name)] = string(data)
	}

	return files, nil
}

// Write writes the documents into the datapack in dir and returns the paths
// of the files written.
func (d *Documents) Write(dir string) ([]string, error) {
	files, err := d.Files()
	if err != nil {
		return nil, err
	}

	return WriteFiles(dir, files)
}
