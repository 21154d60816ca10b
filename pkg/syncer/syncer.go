// Package syncer implements the reconciliation engine: it diffs the remote
// brand/icon listing against the local asset store, applies additions,
// updates and removals, and rebuilds the token registry from the remote
// set. Preview mode runs the identical classification with every mutating
// call skipped, so its output always predicts an apply run.
package syncer

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/glyphkit/glyphkit/pkg/assets"
	"github.com/glyphkit/glyphkit/pkg/config"
	"github.com/glyphkit/glyphkit/pkg/errors"
	"github.com/glyphkit/glyphkit/pkg/figma"
	"github.com/glyphkit/glyphkit/pkg/logging"
	"github.com/glyphkit/glyphkit/pkg/tokens"
)

// RemoteSource is the slice of the remote adapter the syncer consumes.
// *figma.Client satisfies it; tests substitute a fake.
type RemoteSource interface {
	ListIconsByBrand(ctx context.Context, fileKey string) (map[string][]figma.IconDescriptor, error)
	ExportAsImages(ctx context.Context, fileKey string, nodeIDs []string, format string) (map[string]string, error)
	DownloadAsset(ctx context.Context, url, format string) ([]byte, error)
}

// Options controls one sync invocation.
type Options struct {
	// DryRun classifies and reports without mutating store or registry.
	DryRun bool
}

// Syncer reconciles remote state into the asset store and token registry.
// It is the only component that mutates both, always store first: a failure
// between the two steps leaves the registry stale but the asset intact,
// which the next sync repairs.
type Syncer struct {
	cfg          *config.Config
	store        *assets.Store
	remote       RemoteSource
	fs           afero.Fs
	registryPath string
	log          zerolog.Logger
}

// New wires a syncer. registryPath is where the token registry is written.
func New(cfg *config.Config, store *assets.Store, remote RemoteSource, fs afero.Fs, registryPath string) *Syncer {
	return &Syncer{
		cfg:          cfg,
		store:        store,
		remote:       remote,
		fs:           fs,
		registryPath: registryPath,
		log:          logging.GetLogger("syncer"),
	}
}

// Run executes one sync invocation. Startup validation failures are fatal;
// every per-icon and per-brand failure is captured in the report and
// processing continues.
func (s *Syncer) Run(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()

	if err := s.cfg.ValidateRemote(); err != nil {
		return nil, err
	}

	report := &Report{DryRun: opts.DryRun}

	// Snapshot local state before touching the network.
	localState, err := s.snapshotLocal()
	if err != nil {
		return nil, err
	}

	remoteState, err := s.remote.ListIconsByBrand(ctx, s.cfg.FileKey)
	if err != nil {
		return nil, err
	}
	report.RemoteBrands = len(remoteState)
	for _, icons := range remoteState {
		report.RemoteIcons += len(icons)
	}

	// Union of local and remote brands: a brand that vanished remotely
	// still needs its local icons classified as removals, otherwise the
	// store and the rebuilt registry diverge permanently.
	brandSet := make(map[string]bool, len(remoteState)+len(localState))
	for brand := range remoteState {
		brandSet[brand] = true
	}
	for brand := range localState {
		brandSet[brand] = true
	}
	brands := make([]string, 0, len(brandSet))
	for brand := range brandSet {
		brands = append(brands, brand)
	}
	sort.Strings(brands)

	for _, brand := range brands {
		brandReport := s.syncBrand(ctx, brand, remoteState[brand], localState[brand], opts)
		report.addBrand(brandReport)
	}

	if !opts.DryRun {
		if err := s.rebuildRegistry(remoteState); err != nil {
			report.addError(ItemError{Brand: "", Icon: "", Message: err.Error()})
		}
	}

	report.Duration = time.Since(start)
	s.log.Info().
		Bool("dryRun", opts.DryRun).
		Int("added", report.Added).
		Int("updated", report.Updated).
		Int("removed", report.Removed).
		Int("errors", len(report.Errors)).
		Dur("duration", report.Duration).
		Msg("Sync finished")
	return report, nil
}

// snapshotLocal reads the current per-brand icon name sets.
func (s *Syncer) snapshotLocal() (map[string]map[string]bool, error) {
	state := make(map[string]map[string]bool)
	brands, err := s.store.ListBrands()
	if err != nil {
		return nil, err
	}
	for _, brand := range brands {
		icons, err := s.store.ListIcons(brand.Name)
		if err != nil {
			return nil, err
		}
		names := make(map[string]bool, len(icons))
		for _, icon := range icons {
			names[icon.Name] = true
		}
		state[brand.Name] = names
	}
	return state, nil
}

// syncBrand processes one brand: classification in remote listing order,
// then removal detection, then (outside preview) application with local
// error capture per icon.
func (s *Syncer) syncBrand(ctx context.Context, brand string, remoteIcons []figma.IconDescriptor, localNames map[string]bool, opts Options) BrandReport {
	br := BrandReport{Brand: brand}
	logger := s.log.With().Str("brand", brand).Logger()

	// Classify against the local snapshot. Remote is authoritative, so a
	// present icon is always an update; no content comparison is made.
	changes := make(map[string]ChangeType, len(remoteIcons))
	for _, icon := range remoteIcons {
		if localNames[icon.Name] {
			changes[icon.Name] = ChangeUpdated
		} else {
			changes[icon.Name] = ChangeAdded
		}
	}

	remoteNames := make(map[string]bool, len(remoteIcons))
	for _, icon := range remoteIcons {
		remoteNames[icon.Name] = true
	}
	var removed []string
	for name := range localNames {
		if !remoteNames[name] {
			removed = append(removed, name)
		}
	}
	sort.Strings(removed)

	var urls map[string]string
	if !opts.DryRun && len(remoteIcons) > 0 {
		nodeIDs := make([]string, 0, len(remoteIcons))
		for _, icon := range remoteIcons {
			nodeIDs = append(nodeIDs, icon.NodeID)
		}
		var err error
		urls, err = s.remote.ExportAsImages(ctx, s.cfg.FileKey, nodeIDs, figma.FormatSVG)
		if err != nil {
			// The whole brand's downloads are unavailable; record one
			// error per icon so counts stay truthful, then fall through
			// to removal handling.
			logger.Error().Err(err).Msg("Batch export failed")
			for _, icon := range remoteIcons {
				br.Errors = append(br.Errors, ItemError{Brand: brand, Icon: icon.Name, Message: err.Error()})
			}
			urls = nil
			remoteIcons = nil
		}
	}

	// Add/update processing in remote listing order.
	for _, icon := range remoteIcons {
		change := changes[icon.Name]
		if opts.DryRun {
			br.count(change)
			logger.Debug().Str("icon", icon.Name).Str("change", string(change)).Msg("Would apply")
			continue
		}
		if err := s.applyIcon(ctx, brand, icon, urls[icon.NodeID]); err != nil {
			logger.Error().Err(err).Str("icon", icon.Name).Msg("Icon sync failed")
			br.Errors = append(br.Errors, ItemError{Brand: brand, Icon: icon.Name, Message: err.Error()})
			continue
		}
		br.count(change)
	}

	// Removal detection always runs after add/update processing.
	for _, name := range removed {
		if opts.DryRun {
			br.Removed++
			logger.Debug().Str("icon", name).Msg("Would remove")
			continue
		}
		if err := s.store.RemoveIcon(brand, name); err != nil {
			logger.Error().Err(err).Str("icon", name).Msg("Icon removal failed")
			br.Errors = append(br.Errors, ItemError{Brand: brand, Icon: name, Message: err.Error()})
			continue
		}
		br.Removed++
	}

	return br
}

// applyIcon downloads one exported icon and writes it through the store.
// An IconExists conflict (stale classification or racing writer) is
// converted into a forced update: remove, then re-add.
func (s *Syncer) applyIcon(ctx context.Context, brand string, icon figma.IconDescriptor, url string) error {
	if url == "" {
		return errors.Newf(errors.ErrRemoteProtocol, "no export URL returned for node %s", icon.NodeID)
	}
	content, err := s.remote.DownloadAsset(ctx, url, figma.FormatSVG)
	if err != nil {
		return err
	}

	_, err = s.store.AddIcon(brand, icon.OriginalName, content, assets.FormatVector)
	if errors.IsErrorCode(err, errors.ErrIconExists) {
		if err := s.store.RemoveIcon(brand, icon.Name); err != nil {
			return err
		}
		_, err = s.store.AddIcon(brand, icon.OriginalName, content, assets.FormatVector)
	}
	return err
}

// rebuildRegistry rewrites the token registry wholesale from the remote
// icon set. Entries come from the remote listing, not from the store's
// post-sync state, so the registry mirrors what the remote declared even
// when individual downloads failed.
func (s *Syncer) rebuildRegistry(remoteState map[string][]figma.IconDescriptor) error {
	registry := tokens.NewRegistry()
	for brand, icons := range remoteState {
		for _, icon := range icons {
			entry := tokens.Entry{
				Brand:        brand,
				Name:         icon.Name,
				OriginalName: icon.OriginalName,
				Description:  icon.Description,
			}
			if stored, err := s.store.ReadIcon(brand, icon.Name); err == nil {
				entry.Size = int64(len(stored))
				entry.Format = assets.FormatVector
				entry.LastModified = time.Now().UTC().Format(time.RFC3339)
			}
			registry.Put(entry)
		}
	}
	return registry.Save(s.fs, s.registryPath)
}
