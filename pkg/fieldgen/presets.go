// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package fieldgen

import (
	"errors"
	"fmt"

	"nickandperla.net/fieldgen/internal/stdlib"
	"nickandperla.net/fieldgen/internal/store"
)

// Preset is a formula shipped with fieldgen.
type Preset = stdlib.Preset

// Presets returns the formulas seeded into a new catalog.
func Presets() ([]Preset, error) {
	return stdlib.Presets()
}

// presetsDigestKey records which preset file last seeded the catalog.
const presetsDigestKey = "presets_digest"

// seedPresets saves every preset whose name is not already taken, so
// edits made to a preset survive a restart. A catalog already seeded from
// the same preset file is left alone, so deleted presets stay deleted.
func (r *Runtime) seedPresets() error {
	digest := stdlib.Digest()
	ms, hasMeta := r.store.(store.MetadataStore)
	if hasMeta {
		seen, err := ms.GetMetadata(presetsDigestKey)
		if err != nil {
			return fmt.Errorf("read %s: %w", presetsDigestKey, err)
		}
		if seen == digest {
			r.logger.Debug("presets up to date", "digest", digest[:12])
			return nil
		}
	}

	presets, err := stdlib.Presets()
	if err != nil {
		return err
	}
	seeded := 0
	for _, p := range presets {
		_, err := r.store.Get(p.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("seed %s: %w", p.Name, err)
		}
		if err := r.store.Put(p.Name, p.Formula); err != nil {
			return fmt.Errorf("seed %s: %w", p.Name, err)
		}
		seeded++
	}
	if hasMeta {
		if err := ms.SetMetadata(presetsDigestKey, digest); err != nil {
			return fmt.Errorf("record %s: %w", presetsDigestKey, err)
		}
	}
	r.logger.Debug("seeded presets", "count", seeded)
	return nil
}
