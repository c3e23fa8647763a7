// Package main implements genconfig, which renders config.default.toml from
// config.ExampleConfig and the field comments in config.ConfigDocs.
//
// It runs through go generate from internal/config. With -check it exits
// non-zero when the committed file is stale instead of rewriting it.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"tools.zach/dev/presencecord/internal/config"
	"tools.zach/dev/presencecord/internal/paths"
)

func main() {
	check := flag.Bool("check", false, "Fail if the file on disk differs instead of writing it")
	flag.Parse()

	result, err := render(config.ExampleConfig(), config.ConfigDocs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}

	// go generate runs in internal/config; the embed lives at the module root.
	outPath := filepath.Join("..", "..", paths.DefaultConfigFile)

	if *check {
		current, err := os.ReadFile(outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", outPath, err)
			os.Exit(1)
		}
		if string(current) != result {
			fmt.Fprintf(os.Stderr, "%s is stale; run go generate ./internal/config\n", paths.DefaultConfigFile)
			os.Exit(1)
		}
		return
	}

	if err := os.WriteFile(outPath, []byte(result), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", outPath, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", paths.DefaultConfigFile)
}

// ///////////////////////////////////////////////
// Rendering
// ///////////////////////////////////////////////

// render encodes cfg as TOML, strips the encoder's indentation, and places
// each doc comment above its key. Alternatives follow the key as commented
// lines. Documented keys the encoder omitted are appended to their section
// fully commented out.
func render(cfg any, docs map[string]config.FieldDoc) (string, error) {
	var raw bytes.Buffer
	if err := toml.NewEncoder(&raw).Encode(cfg); err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}

	out := []string{
		"# ///////////////////////////////////////////////",
		"# " + paths.BinaryName + " Configuration",
		"# ///////////////////////////////////////////////",
		"",
	}

	var sectionStack []string
	emitted := map[string]bool{}

	for _, line := range strings.Split(raw.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "[[") {
			injectOmitted(&out, docs, sectionStack, emitted)

			section := strings.Trim(trimmed, "[] ")
			sectionStack = parseSectionPath(section)

			out = append(out, "", fmt.Sprintf("# ///// %s /////", sectionName(section)), "")
			if doc, ok := docs[section]; ok {
				out = appendComment(out, doc.Comment)
			}
			out = append(out, trimmed)
			continue
		}

		if !strings.Contains(trimmed, "=") || strings.HasPrefix(trimmed, "#") {
			out = append(out, trimmed)
			continue
		}

		key, _, _ := strings.Cut(trimmed, "=")
		fullPath := strings.TrimSpace(key)
		if len(sectionStack) > 0 {
			fullPath = strings.Join(sectionStack, ".") + "." + fullPath
		}
		emitted[fullPath] = true

		doc, ok := docs[fullPath]
		if !ok {
			out = append(out, trimmed)
			continue
		}
		out = appendComment(out, doc.Comment)
		out = append(out, trimmed)
		for _, alt := range doc.Alternatives {
			out = append(out, "# "+alt)
		}
	}
	injectOmitted(&out, docs, sectionStack, emitted)

	return strings.TrimRight(strings.Join(out, "\n"), "\n") + "\n", nil
}

// appendComment adds comment to out as "# " lines, one per line of text.
func appendComment(out []string, comment string) []string {
	if comment == "" {
		return out
	}
	for _, cl := range strings.Split(comment, "\n") {
		out = append(out, "# "+cl)
	}
	return out
}

// injectOmitted appends commented-out entries for documented keys of the
// current section that the encoder skipped, typically omitempty fields at
// their zero value. Keys are sorted for stable output.
func injectOmitted(out *[]string, docs map[string]config.FieldDoc, sectionStack []string, emitted map[string]bool) {
	if len(sectionStack) == 0 {
		return
	}
	prefix := strings.Join(sectionStack, ".") + "."

	var omitted []string
	for path := range docs {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok || strings.Contains(rest, ".") || emitted[path] {
			continue
		}
		omitted = append(omitted, path)
	}
	sort.Strings(omitted)

	for _, path := range omitted {
		doc := docs[path]
		*out = append(*out, "")
		*out = appendComment(*out, doc.Comment)
		for _, alt := range doc.Alternatives {
			*out = append(*out, "# "+alt)
		}
		emitted[path] = true
	}
}

// parseSectionPath splits a dotted table header such as "steam.proxy" into
// its segments.
func parseSectionPath(section string) []string {
	return strings.Split(section, ".")
}

// sectionName is the banner label for a table header: its last segment
// with the first letter upper-cased.
func sectionName(section string) string {
	parts := strings.Split(section, ".")
	last := parts[len(parts)-1]
	if len(last) == 0 {
		return ""
	}
	return strings.ToUpper(last[:1]) + last[1:]
}
