package repository

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"friender-bender/internal/domain"
)

// DisplayMetadataLookup resuelve los datos de presentación de un usuario.
// Devuelve ErrNotFound si el usuario no existe.
type DisplayMetadataLookup interface {
	FindDisplayMetadata(ctx context.Context, userID string) (domain.DisplayMetadata, error)
}

// DisplayMetadataBatcher es la fuente que consulta varios usuarios de una vez.
type DisplayMetadataBatcher interface {
	FindDisplayMetadataBatch(ctx context.Context, userIDs []string) (map[string]domain.DisplayMetadata, error)
}

const displayBatchTimeout = 5 * time.Second

// BatchedDisplayLookup agrupa las búsquedas concurrentes del fan-out del ranking en una sola
// consulta. No cachea: cada Load vuelve a la base.
type BatchedDisplayLookup struct {
	loader *dataloader.Loader[string, domain.DisplayMetadata]
}

func NewBatchedDisplayLookup(source DisplayMetadataBatcher, wait time.Duration, maxBatch int) *BatchedDisplayLookup {
	if wait <= 0 {
		wait = 2 * time.Millisecond
	}
	if maxBatch <= 0 {
		maxBatch = 100
	}
	return &BatchedDisplayLookup{
		loader: dataloader.NewBatchedLoader(
			displayBatchFn(source),
			dataloader.WithWait[string, domain.DisplayMetadata](wait),
			dataloader.WithBatchCapacity[string, domain.DisplayMetadata](maxBatch),
			dataloader.WithCache[string, domain.DisplayMetadata](&dataloader.NoCache[string, domain.DisplayMetadata]{}),
		),
	}
}

func (l *BatchedDisplayLookup) FindDisplayMetadata(ctx context.Context, userID string) (domain.DisplayMetadata, error) {
	return l.loader.Load(ctx, userID)()
}

func displayBatchFn(source DisplayMetadataBatcher) dataloader.BatchFunc[string, domain.DisplayMetadata] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[domain.DisplayMetadata] {
		results := make([]*dataloader.Result[domain.DisplayMetadata], len(keys))

		// El lote mezcla claves de distintos requests: la cancelación del primero no debe
		// tumbar a los demás.
		batchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), displayBatchTimeout)
		defer cancel()

		found, err := source.FindDisplayMetadataBatch(batchCtx, keys)
		for i, key := range keys {
			switch {
			case err != nil:
				results[i] = &dataloader.Result[domain.DisplayMetadata]{Error: err}
			default:
				meta, ok := found[key]
				if !ok {
					results[i] = &dataloader.Result[domain.DisplayMetadata]{Error: ErrNotFound}
					continue
				}
				results[i] = &dataloader.Result[domain.DisplayMetadata]{Data: meta}
			}
		}
		return results
	}
}
