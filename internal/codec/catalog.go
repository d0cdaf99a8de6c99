package codec

import (
	"context"
	"fmt"
	"strings"

	"github.com/hbomb79/castmirror/pkg/logger"
	pkgsync "github.com/hbomb79/castmirror/pkg/sync"
)

var log = logger.Get("Codec")

// Source enumerates the codecs a transcoding backend currently supports.
// The real implementation shells out to the backend binary; tests supply a
// fake.
type Source interface {
	Decoders(ctx context.Context) ([]Codec, error)
	Encoders(ctx context.Context) ([]Codec, error)
}

// Catalog is the process-wide record of every codec the transcoding backend
// reports, indexed for case-insensitive lookup by either its short or long
// name. It is built once at startup and is safe for concurrent read access
// for the lifetime of the process.
type Catalog struct {
	byName pkgsync.TypedSyncMap[ID, Codec]
	byLong pkgsync.TypedSyncMap[string, ID]
}

// Build queries source for its full decoder and encoder lists and returns a
// populated Catalog. A codec reported as both decodable and encodable is
// merged into a single entry.
func Build(ctx context.Context, source Source) (*Catalog, error) {
	cat := &Catalog{}

	decoders, err := source.Decoders(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying decoders: %w", err)
	}
	for _, c := range decoders {
		c.Decodable = true
		cat.merge(c)
	}

	encoders, err := source.Encoders(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying encoders: %w", err)
	}
	for _, c := range encoders {
		c.Encodable = true
		cat.merge(c)
	}

	log.Emit(logger.DEBUG, "Codec catalog built with %d decoders, %d encoders\n", len(decoders), len(encoders))

	return cat, nil
}

func (c *Catalog) merge(incoming Codec) {
	existing, ok := c.byName.Load(incoming.ID)
	if !ok {
		existing = incoming
	} else {
		existing.Decodable = existing.Decodable || incoming.Decodable
		existing.Encodable = existing.Encodable || incoming.Encodable
		if existing.Long == "" {
			existing.Long = incoming.Long
		}
		if existing.Kind == "" {
			existing.Kind = incoming.Kind
		}
	}

	c.byName.Store(existing.ID, existing)
	if incoming.Long != "" {
		c.byLong.Store(strings.ToLower(incoming.Long), existing.ID)
	}
}

// Find resolves name (short or long, case-insensitive) to a known Codec.
func (c *Catalog) Find(name string) (Codec, bool) {
	if got, ok := c.byName.Load(NewID(name)); ok {
		return got, ok
	}

	if id, ok := c.byLong.Load(strings.ToLower(strings.TrimSpace(name))); ok {
		return c.byName.Load(id)
	}

	return Codec{}, false
}
