package output

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// section is one heading of a rendered tree. Scalar members become table
// rows; nested objects become child sections.
type section struct {
	title    string
	level    int
	rows     [][2]string
	children []*section
}

var titleCaser = cases.Title(language.English)

// toNode converts v into an order-preserving YAML tree by way of its JSON
// encoding. Styles are cleared so the tree encodes as block YAML.
func toNode(v any) (*yaml.Node, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode output: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	root := doc.Content[0]
	clearStyle(root)
	return root, nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}

// Title turns a snake_case key into a heading.
func Title(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

func buildSection(title string, level int, n *yaml.Node) *section {
	s := &section{title: title, level: level}
	if n.Kind != yaml.MappingNode {
		s.rows = append(s.rows, [2]string{"value", scalarText(n)})
		return s
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		if val.Kind == yaml.MappingNode && len(val.Content) > 0 {
			s.children = append(s.children, buildSection(Title(key), level+1, val))
			continue
		}
		s.rows = append(s.rows, [2]string{key, scalarText(val)})
	}
	return s
}

func scalarText(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		if len(n.Content) == 0 {
			return "-"
		}
		return "{...}"
	case yaml.SequenceNode:
		parts := make([]string, len(n.Content))
		for i, c := range n.Content {
			parts[i] = scalarText(c)
		}
		return strings.Join(parts, ", ")
	}
	switch n.Tag {
	case "!!null":
		return "n/a"
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return n.Value
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return n.Value
}

// Tree renders v under title in the effective mode. Objects nest as
// sections and scalar members as two-column tables.
func (r *Renderer) Tree(title string, v any) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(v)
	case ModeYAML:
		return r.YAML(v)
	}

	node, err := toNode(v)
	if err != nil {
		return err
	}
	root := buildSection(title, 1, node)
	if r.EffectiveMode() == ModeMarkdown {
		r.markdownSection(root)
	} else {
		r.textSection(root)
	}
	return nil
}

func (r *Renderer) textSection(s *section) {
	r.Header(s.level, s.title)
	if len(s.rows) > 0 {
		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		for _, row := range s.rows {
			t.AppendRow(table.Row{r.styles.Key.Render(row[0]), row[1]})
		}
		r.Println(t.Render())
	}
	r.Println("")
	for _, c := range s.children {
		r.textSection(c)
	}
}

func (r *Renderer) markdownSection(s *section) {
	r.Println(FormatHeader(s.level, s.title))
	r.Println("")
	if len(s.rows) > 0 {
		t := table.NewWriter()
		t.AppendHeader(table.Row{"Key", "Value"})
		for _, row := range s.rows {
			t.AppendRow(table.Row{row[0], row[1]})
		}
		r.Println(t.RenderMarkdown())
		r.Println("")
	}
	for _, c := range s.children {
		r.markdownSection(c)
	}
}
