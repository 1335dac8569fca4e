package provider

import (
	"fmt"
	"strings"
	"tripbook/internal/domains/booking/model"
)

// Registry resolves provider ids to gateways.
type Registry interface {
	Get(providerID string) (Gateway, bool)
	Supports(providerID string, componentType model.ComponentType) bool
	IDs() []string
}

type registryImpl struct {
	gateways map[string]Gateway
	order    []string
}

func NewRegistry(gateways ...Gateway) Registry {
	r := &registryImpl{gateways: make(map[string]Gateway, len(gateways))}

	for _, gw := range gateways {
		if _, exists := r.gateways[gw.ID()]; !exists {
			r.order = append(r.order, gw.ID())
		}

		r.gateways[gw.ID()] = gw
	}

	return r
}

func (r *registryImpl) Get(providerID string) (Gateway, bool) {
	gw, ok := r.gateways[providerID]

	return gw, ok
}

func (r *registryImpl) Supports(providerID string, componentType model.ComponentType) bool {
	gw, ok := r.gateways[providerID]

	return ok && gw.Serves(componentType)
}

func (r *registryImpl) IDs() []string {
	return append([]string(nil), r.order...)
}

// CatalogEntry is one "provider:type[|type]" item of PROVIDERS_CATALOG.
type CatalogEntry struct {
	ID    string
	Types []model.ComponentType
}

// ParseCatalog parses entries like "skyjet:flight" or "globetix:ticket|hotel".
func ParseCatalog(items []string) ([]CatalogEntry, error) {
	entries := make([]CatalogEntry, 0, len(items))

	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		id, rawTypes, found := strings.Cut(item, ":")
		if !found || id == "" || rawTypes == "" {
			return nil, fmt.Errorf("invalid provider catalog entry %q", item)
		}

		entry := CatalogEntry{ID: id}

		for _, raw := range strings.Split(rawTypes, "|") {
			t := model.ComponentType(strings.TrimSpace(raw))
			if !t.IsValid() {
				return nil, fmt.Errorf("provider %s: unknown component type %q", id, raw)
			}

			entry.Types = append(entry.Types, t)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
