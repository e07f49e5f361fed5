package valkey

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"
)

// GridIndex implements ports.GridIndex. Each grid string owns a set of
// region IDs under "grid:<key>", and "region:grid:<id>" remembers the cell a
// region was filed under.
type GridIndex struct {
	client valkey.Client
}

func cellKey(gridKey string) string    { return "grid:" + gridKey }
func regionKey(regionID string) string { return "region:grid:" + regionID }

// AddToCell files regionID under gridKey, moving it out of any cell it was
// previously filed under.
func (g *GridIndex) AddToCell(ctx context.Context, gridKey, regionID string) error {
	prev, err := g.client.Do(ctx, g.client.B().Get().Key(regionKey(regionID)).Build()).ToString()
	if err != nil && !valkey.IsValkeyNil(err) {
		return fmt.Errorf("read region cell: %w", err)
	}

	cmds := make(valkey.Commands, 0, 3)
	if prev != "" && prev != gridKey {
		cmds = append(cmds, g.client.B().Srem().Key(cellKey(prev)).Member(regionID).Build())
	}
	cmds = append(cmds,
		g.client.B().Sadd().Key(cellKey(gridKey)).Member(regionID).Build(),
		g.client.B().Set().Key(regionKey(regionID)).Value(gridKey).Build(),
	)
	for _, resp := range g.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return fmt.Errorf("index region: %w", err)
		}
	}
	return nil
}

// RemoveFromCell drops regionID from gridKey and forgets its cell.
func (g *GridIndex) RemoveFromCell(ctx context.Context, gridKey, regionID string) error {
	for _, resp := range g.client.DoMulti(ctx,
		g.client.B().Srem().Key(cellKey(gridKey)).Member(regionID).Build(),
		g.client.B().Del().Key(regionKey(regionID)).Build(),
	) {
		if err := resp.Error(); err != nil {
			return fmt.Errorf("unindex region: %w", err)
		}
	}
	return nil
}

// RegionsInCell lists the region IDs filed under gridKey.
func (g *GridIndex) RegionsInCell(ctx context.Context, gridKey string) ([]string, error) {
	return g.client.Do(ctx, g.client.B().Smembers().Key(cellKey(gridKey)).Build()).AsStrSlice()
}
