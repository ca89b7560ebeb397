package parser

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// Frontmatter holds the structured metadata block that may precede a note body.
type Frontmatter struct {
	Title string
	Tags  []string
}

var (
	fmOpen  = []byte("---\n")
	fmClose = []byte("\n---\n")
)

// ExtractFrontmatter splits content into its frontmatter block and body.
//
// A block only counts as frontmatter when it starts at byte offset zero of
// the file; a delimited block appearing after any other content is left in
// the body untouched. Malformed YAML never aborts parsing: the error is
// returned for reporting and the full content is treated as body.
func ExtractFrontmatter(content []byte) (Frontmatter, []byte, error) {
	if !bytes.HasPrefix(content, fmOpen) {
		return Frontmatter{}, content, nil
	}

	end := bytes.Index(content[len(fmOpen):], fmClose)
	if end < 0 {
		return Frontmatter{}, content, nil
	}

	block := content[len(fmOpen) : len(fmOpen)+end]
	body := content[len(fmOpen)+end+len(fmClose):]

	fm, err := parseFrontmatter(block)
	if err != nil {
		return Frontmatter{}, content, err
	}
	return fm, body, nil
}

func parseFrontmatter(block []byte) (Frontmatter, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(block, &doc); err != nil {
		return Frontmatter{}, err
	}

	var fm Frontmatter
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return fm, nil
	}

	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return fm, nil
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		value := mapping.Content[i+1]

		switch key.Value {
		case "title":
			if value.Kind == yaml.ScalarNode {
				fm.Title = value.Value
			}
		case "tags":
			fm.Tags = append(fm.Tags, flattenTags(value)...)
		}
	}

	return fm, nil
}

// flattenTags accepts either plain tag entries or a single level of nesting,
// where a mapping entry encodes a parent tag with child tags below it:
//
//	tags:
//	  - plain
//	  - files:
//	      - yaml
//	      - markdown
//
// The nested form yields files/yaml and files/markdown.
func flattenTags(node *yaml.Node) []string {
	if node.Kind != yaml.SequenceNode {
		if node.Kind == yaml.ScalarNode && node.Value != "" {
			return []string{node.Value}
		}
		return nil
	}

	var tags []string
	for _, entry := range node.Content {
		switch entry.Kind {
		case yaml.ScalarNode:
			if entry.Value != "" {
				tags = append(tags, entry.Value)
			}
		case yaml.MappingNode:
			for i := 0; i+1 < len(entry.Content); i += 2 {
				parent := entry.Content[i]
				children := entry.Content[i+1]
				if parent.Kind != yaml.ScalarNode || parent.Value == "" {
					continue
				}
				if children.Kind != yaml.SequenceNode {
					continue
				}
				for _, child := range children.Content {
					if child.Kind == yaml.ScalarNode && child.Value != "" {
						tags = append(tags, parent.Value+"/"+child.Value)
					}
				}
			}
		}
	}
	return tags
}
