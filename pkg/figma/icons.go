package figma

import (
	"context"
	"sort"

	"github.com/glyphkit/glyphkit/pkg/naming"
)

// Traversal strategies for mapping pages to brands.
const (
	// TraversalFlat considers every registered component eligible for
	// every page. Real files keep one page per brand and never share
	// components across pages, which is why this works in practice.
	TraversalFlat = "flat"
	// TraversalSubtree walks each page's subtree and assigns a component
	// to a brand only when its node actually lives inside that page.
	TraversalSubtree = "subtree"
)

// ListIconsByBrand maps each top-level page of the remote file to a brand
// (page name through the shared normalization rule) and every component
// assigned to that page to an IconDescriptor. Components whose names
// normalize to the same identifier within one brand keep the first
// occurrence in document order.
func (c *Client) ListIconsByBrand(ctx context.Context, fileKey string) (map[string][]IconDescriptor, error) {
	file, err := c.FetchFileModel(ctx, fileKey)
	if err != nil {
		return nil, err
	}

	byBrand := make(map[string][]IconDescriptor)
	for _, page := range file.Document.Children {
		if page.Type != "CANVAS" {
			continue
		}
		brand := naming.Normalize(page.Name)
		if brand == "" {
			c.log.Warn().Str("page", page.Name).Msg("Skipping page with unusable name")
			continue
		}

		var nodeIDs []string
		if c.cfg.PageTraversal == TraversalSubtree {
			nodeIDs = collectComponentIDs(page, file.Components)
		} else {
			nodeIDs = allComponentIDs(file.Components)
		}

		seen := make(map[string]bool)
		var icons []IconDescriptor
		for _, id := range nodeIDs {
			comp := file.Components[id]
			name := naming.Normalize(comp.Name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			icons = append(icons, IconDescriptor{
				Brand:        brand,
				NodeID:       id,
				Name:         name,
				OriginalName: comp.Name,
				Description:  comp.Description,
			})
		}
		if len(icons) > 0 {
			byBrand[brand] = icons
		}
	}

	c.log.Info().
		Int("brands", len(byBrand)).
		Str("traversal", c.cfg.PageTraversal).
		Msg("Listed remote icons by brand")
	return byBrand, nil
}

// allComponentIDs returns every component node id in a stable order.
// The component index is a map, so sorting keeps the flat traversal
// deterministic across runs.
func allComponentIDs(components map[string]Component) []string {
	ids := make([]string, 0, len(components))
	for id := range components {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// collectComponentIDs walks the page subtree in document order and returns
// the node ids that are registered components.
func collectComponentIDs(page Node, components map[string]Component) []string {
	var ids []string
	var walk func(n Node)
	walk = func(n Node) {
		if _, ok := components[n.ID]; ok {
			ids = append(ids, n.ID)
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	for _, child := range page.Children {
		walk(child)
	}
	return ids
}
