// Package taxonomy maps category and tag display names to backend
// identifiers, creating missing entries on the fly.
package taxonomy

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/halo"
)

// Resolver resolves taxonomy display names against a fresh snapshot per call.
type Resolver struct {
	gw halo.Gateway
}

// NewResolver creates a resolver over the given gateway.
func NewResolver(gw halo.Gateway) *Resolver {
	return &Resolver{gw: gw}
}

// CategoryIDs resolves category display names to ids, creating any that do
// not exist yet. The result is index-aligned with displayNames.
func (r *Resolver) CategoryIDs(ctx context.Context, displayNames []string) ([]string, error) {
	categories, err := r.gw.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]string, len(categories))
	for _, c := range categories {
		if _, ok := existing[c.Spec.DisplayName]; !ok {
			existing[c.Spec.DisplayName] = c.Metadata.Name
		}
	}
	total := len(categories)
	return resolve(ctx, displayNames, existing, func(ctx context.Context, name string, i int) (string, error) {
		created, err := r.gw.CreateCategory(ctx, name, total+i)
		if err != nil {
			return "", err
		}
		return created.Metadata.Name, nil
	})
}

// TagIDs resolves tag display names to ids, creating any that do not exist
// yet. The result is index-aligned with displayNames.
func (r *Resolver) TagIDs(ctx context.Context, displayNames []string) ([]string, error) {
	tags, err := r.gw.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]string, len(tags))
	for _, t := range tags {
		if _, ok := existing[t.Spec.DisplayName]; !ok {
			existing[t.Spec.DisplayName] = t.Metadata.Name
		}
	}
	return resolve(ctx, displayNames, existing, func(ctx context.Context, name string, _ int) (string, error) {
		created, err := r.gw.CreateTag(ctx, name)
		if err != nil {
			return "", err
		}
		return created.Metadata.Name, nil
	})
}

// CategoryDisplayNames is the inverse lookup; unknown ids are dropped.
func (r *Resolver) CategoryDisplayNames(ctx context.Context, ids []string) ([]string, error) {
	categories, err := r.gw.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]string, len(categories))
	for _, c := range categories {
		byID[c.Metadata.Name] = c.Spec.DisplayName
	}
	return displayNames(ids, byID), nil
}

// TagDisplayNames is the inverse lookup; unknown ids are dropped.
func (r *Resolver) TagDisplayNames(ctx context.Context, ids []string) ([]string, error) {
	tags, err := r.gw.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]string, len(tags))
	for _, t := range tags {
		byID[t.Metadata.Name] = t.Spec.DisplayName
	}
	return displayNames(ids, byID), nil
}

// resolve partitions displayNames into known and missing entries, creates the
// missing ones concurrently (deduplicated, one create per distinct name), and
// returns ids aligned with the input order.
func resolve(ctx context.Context, displayNames []string, existing map[string]string, create func(ctx context.Context, name string, i int) (string, error)) ([]string, error) {
	var missing []string
	seen := make(map[string]struct{})
	for _, name := range displayNames {
		if _, ok := existing[name]; ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		missing = append(missing, name)
	}

	created := make([]string, len(missing))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range missing {
		g.Go(func() error {
			id, err := create(gctx, name, i)
			if err != nil {
				return err
			}
			created[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, name := range missing {
		existing[name] = created[i]
	}
	out := make([]string, len(displayNames))
	for i, name := range displayNames {
		out[i] = existing[name]
	}
	return out, nil
}

func displayNames(ids []string, byID map[string]string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			out = append(out, name)
		}
	}
	return out
}
