// Package svg holds the minimal vector-document checks the pipeline relies
// on: every vector asset entering the store (locally added or downloaded
// from the remote source) must parse as XML with a root <svg> element.
package svg

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Validate checks that content is a parseable vector document with a root
// svg element. It is a sniff check, not a renderer-grade validation.
func Validate(content []byte) error {
	if len(content) == 0 {
		return fmt.Errorf("empty document")
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return fmt.Errorf("not well-formed XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("no root element")
	}
	if !strings.EqualFold(root.Tag, "svg") {
		return fmt.Errorf("root element is <%s>, expected <svg>", root.Tag)
	}
	return nil
}

// ViewBox returns the root viewBox attribute, synthesizing one from
// width/height when absent. Used by the component stage so generated
// markup scales correctly.
func ViewBox(content []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return "", fmt.Errorf("not well-formed XML: %w", err)
	}
	root := doc.Root()
	if root == nil || !strings.EqualFold(root.Tag, "svg") {
		return "", fmt.Errorf("not an svg document")
	}
	if vb := root.SelectAttrValue("viewBox", ""); vb != "" {
		return vb, nil
	}
	w := strings.TrimSuffix(root.SelectAttrValue("width", ""), "px")
	h := strings.TrimSuffix(root.SelectAttrValue("height", ""), "px")
	if w != "" && h != "" {
		return fmt.Sprintf("0 0 %s %s", w, h), nil
	}
	return "", fmt.Errorf("no viewBox or width/height attributes")
}

// Inner returns the serialized child markup of the root element, with the
// root's attributes dropped. The component stage inlines this into the
// generated custom element, which supplies its own <svg> wrapper.
func Inner(content []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return "", fmt.Errorf("not well-formed XML: %w", err)
	}
	root := doc.Root()
	if root == nil || !strings.EqualFold(root.Tag, "svg") {
		return "", fmt.Errorf("not an svg document")
	}
	var b strings.Builder
	for _, child := range root.ChildElements() {
		sub := etree.NewDocument()
		sub.SetRoot(child.Copy())
		s, err := sub.WriteToString()
		if err != nil {
			return "", err
		}
		b.WriteString(strings.TrimSpace(s))
	}
	return b.String(), nil
}
