package generate

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/Tysek64/DrugiTinder/internal/pool"
	"github.com/Tysek64/DrugiTinder/internal/worker"
)

func UserInterests(ctx context.Context, e *Env, _ int) (Batch, error) {
	profiles := e.Pools.Get(pool.UserDetails)
	interests := e.Pools.Get(pool.Interest)
	uniform := newWeighted(make([]float64, interests.Len()))

	rows, err := worker.Partition(ctx, e.Workers, profiles.Len(), rowChunk, e.Seed, "user_interest",
		func(r *rand.Rand, lo, hi int) ([][]any, error) {
			var out [][]any
			for i := lo; i < hi; i++ {
				for _, j := range uniform.distinct(r, between(r, 2, 6)) {
					out = append(out, []any{profiles.IDs[i], interests.IDs[j], between(r, 1, 10), r.IntN(2) == 0})
				}
			}
			return out, nil
		})
	if err != nil {
		return Batch{}, err
	}
	return Batch{
		Table:   "user_interest",
		Columns: []string{"fk_user_details_id", "fk_interest_id", "level_of_interest", "is_positive"},
		Rows:    rows,
	}, nil
}

// Images gives every profile 1-5 photos. The newest one is current; a photo
// is verified once it is older than a random age up to oldest_unverified_photo.
func Images(ctx context.Context, e *Env, _ int) (Batch, error) {
	profiles := e.Pools.Get(pool.UserDetails)
	oldest := max(e.Cfg.OldestCurrentPhoto, 1)

	rows, err := worker.Partition(ctx, e.Workers, profiles.Len(), rowChunk, e.Seed, "image",
		func(r *rand.Rand, lo, hi int) ([][]any, error) {
			var out [][]any
			for i := lo; i < hi; i++ {
				uploads := make([]time.Time, between(r, 1, 5))
				for j := range uploads {
					uploads[j] = timeBetween(r, e.Now.Add(-days(3*oldest)), e.Now).Truncate(time.Second)
				}
				slices.SortFunc(uploads, func(a, b time.Time) int { return b.Compare(a) })

				for j, at := range uploads {
					age := int(e.Now.Sub(at) / (24 * time.Hour))
					out = append(out, []any{
						imagePath(r),
						at,
						j == 0,
						int64(between(r, 500*1024, 5*1024*1024)),
						between(r, 0, e.Cfg.OldestUnverifiedPhoto) < age,
						profiles.IDs[i],
					})
				}
			}
			return out, nil
		})
	if err != nil {
		return Batch{}, err
	}
	return Batch{
		Table:   "image",
		Columns: []string{"file_path", "uploaded_at", "is_current", "file_size_bytes", "is_verified", "fk_user_details_id"},
		Rows:    rows,
	}, nil
}

// imagePath draws a v4 UUID from r so paths are reproducible per seed.
func imagePath(r *rand.Rand) string {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], r.Uint64())
	binary.LittleEndian.PutUint64(b[8:], r.Uint64())
	b[6] = b[6]&0x0f | 0x40
	b[8] = b[8]&0x3f | 0x80

	id, _ := uuid.FromBytes(b[:])
	s := id.String()
	return fmt.Sprintf("images/%s/%s/%s.jpg", s[:2], s[2:4], s)
}
