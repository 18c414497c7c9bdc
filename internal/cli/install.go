package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/modsmith/modsmith/pkg/depresolve"
	"github.com/modsmith/modsmith/pkg/errors"
	"github.com/modsmith/modsmith/pkg/instance"
	"github.com/modsmith/modsmith/pkg/mod"
	"github.com/modsmith/modsmith/pkg/providers"
	"github.com/modsmith/modsmith/pkg/session"
)

// downloadTimeout bounds a single artifact download.
const downloadTimeout = 5 * time.Minute

type installOptions struct {
	provider    string
	dir         string
	gameVersion string
	loader      string
	yes         bool
	noCache     bool
}

// installCommand creates the install command.
func (c *CLI) installCommand() *cobra.Command {
	var opts installOptions

	cmd := &cobra.Command{
		Use:   "install <kind> <name>...",
		Short: "Install resources into a game instance",
		Long: `Install resources into a game instance.

Each name is searched on the chosen provider. For mods, required
dependencies are resolved and added to the download list before
anything is written to disk; the final list is shown for review.

Examples:
  modsmith install mod sodium lithium
  modsmith install shaderpack complementary --dir ~/.minecraft
  modsmith install mod "fabric api" --yes`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInstall(cmd.Context(), opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.provider, "provider", "p", string(providers.Modrinth), "content provider (modrinth, flame)")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "instance directory (default from config)")
	cmd.Flags().StringVar(&opts.gameVersion, "game-version", "", "game version filter (default from config)")
	cmd.Flags().StringVar(&opts.loader, "loader", "", "mod loader filter (default from config)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "skip interactive prompts and accept the review")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the response cache")

	return cmd
}

func (c *CLI) runInstall(ctx context.Context, opts installOptions, args []string) error {
	logger := loggerFromContext(ctx)

	kind, err := mod.ParseKind(args[0])
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidKind, err, "invalid kind %q", args[0])
	}
	queries := args[1:]

	inst, err := c.openInstance(opts)
	if err != nil {
		return err
	}
	folder := inst.Folder(kind)
	if err := folder.Ensure(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInstance, err, "creating %s", folder.Dir())
	}

	pid := mod.Provider(opts.provider)
	table := providers.DefaultTable()
	if !table.Supports(pid, kind) {
		return errors.New(errors.ErrCodeUnsupported, "%s does not serve %s content", table.DisplayName(pid), kind)
	}

	mux, backends, err := c.newMux(opts.noCache)
	if err != nil {
		return err
	}
	if _, ok := backends[pid]; !ok {
		return errors.New(errors.ErrCodeInvalidProvider,
			"%s is not configured (set providers.flame.api_key in the config)", table.DisplayName(pid))
	}

	sess := c.newSession(folder, table, mux, inst, opts.yes, logger)
	for _, id := range table.IDs() {
		backend, ok := backends[id]
		if !ok || !table.Supports(id, kind) {
			continue
		}
		sess.AddPage(string(id), providers.NewPage(id, kind, backend))
	}
	sess.SelectPage(string(pid))

	for _, q := range queries {
		pack, ver, err := c.pickResource(ctx, sess, mux, q, inst, opts.yes)
		if err != nil {
			return err
		}
		if pack == nil {
			printInfo("Installation cancelled")
			return nil
		}
		sess.AddResource(*pack, ver)
		printInfo("Selected %s %s", pack.Name, StyleDim.Render(ver.FileName))
	}

	accepted, err := sess.Confirm(ctx)
	if err != nil {
		return err
	}
	if !accepted {
		printInfo("Installation cancelled")
		return nil
	}

	tasks := sess.Tasks()
	if len(tasks) == 0 {
		printInfo("Nothing to install")
		return nil
	}

	client := &http.Client{Timeout: downloadTimeout}
	for _, t := range tasks {
		dest, err := downloadTask(ctx, client, t)
		if err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "downloading %s", t.Pack.Name)
		}
		printFile(dest)
	}

	if err := recordInstall(ctx, inst, tasks); err != nil {
		logger.Warn("failed to update installed index", "err", err)
	}

	printSuccess("Installed %d %s resource(s) into %s", len(tasks), kind, folder.Dir())
	return nil
}

// openInstance resolves the instance from flags and config.
func (c *CLI) openInstance(opts installOptions) (*instance.Instance, error) {
	dir := opts.dir
	if dir == "" {
		dir = c.Config.Instance.Dir
	}
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidInstance,
			"no instance directory configured (set instance.dir in the config or pass --dir)")
	}
	gameVersion := opts.gameVersion
	if gameVersion == "" {
		gameVersion = c.Config.Instance.GameVersion
	}
	loader := opts.loader
	if loader == "" {
		loader = c.Config.Instance.Loader
	}
	return instance.New(dir, gameVersion, loader)
}

// newSession wires the session with interactive or plain surfaces.
func (c *CLI) newSession(folder *instance.Folder, table providers.Table, mux *providers.Mux, inst *instance.Instance, yes bool, logger *log.Logger) *session.Session {
	cfg := session.Config{
		Target: folder,
		Table:  table,
		Source: mux,
		Resolve: depresolve.Options{
			GameVersion: inst.GameVersion,
			Loader:      inst.Loader,
			Logf:        logger.Debugf,
		},
		Logger: c.Logger,
	}
	if yes {
		cfg.Progress = plainSurfaces{}
		cfg.Messages = plainSurfaces{}
		cfg.Reviews = plainSurfaces{}
	} else {
		cfg.Progress = tuiSurfaces{}
		cfg.Messages = tuiSurfaces{}
		cfg.Reviews = tuiSurfaces{}
	}
	return session.New(cfg)
}

// pickResource searches the active page for a query and picks a pack plus a
// compatible version. A nil pack with a nil error means the user cancelled.
func (c *CLI) pickResource(ctx context.Context, sess *session.Session, mux *providers.Mux, query string, inst *instance.Instance, yes bool) (*mod.Pack, *mod.Version, error) {
	page := sess.SelectedPage()
	if page == nil {
		return nil, nil, errors.New(errors.ErrCodePageNotFound, "no provider page for this kind")
	}

	page.SetSearchTerm(query)
	if err := page.Search(ctx); err != nil {
		return nil, nil, err
	}
	packs := page.Packs()
	if len(packs) == 0 {
		return nil, nil, errors.New(errors.ErrCodePackNotFound,
			"no %s named %q found on %s", page.Kind(), query, page.Provider())
	}

	pack := packs[0]
	if !yes && len(packs) > 1 {
		title := fmt.Sprintf("Results for %q", query)
		final, err := tea.NewProgram(NewPackListModel(title, packs)).Run()
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "pack selection failed")
		}
		m, ok := final.(PackListModel)
		if !ok {
			return nil, nil, errors.New(errors.ErrCodeInternal, "unexpected selection model type %T", final)
		}
		if m.Selected == nil {
			return nil, nil, nil
		}
		pack = *m.Selected
	}

	versions, err := mux.Versions(ctx, pack.Provider, pack.ID, inst.GameVersion, inst.Loader)
	if err != nil {
		return nil, nil, err
	}
	for i := range versions {
		if versions[i].CompatibleWith(inst.GameVersion, inst.Loader) {
			page.MarkSelected(pack.Name)
			return &pack, &versions[i], nil
		}
	}
	return nil, nil, errors.New(errors.ErrCodeVersionNotFound,
		"no version of %s is compatible with %s", pack.Name, describeFilter(inst))
}

func describeFilter(inst *instance.Instance) string {
	parts := []string{}
	if inst.GameVersion != "" {
		parts = append(parts, inst.GameVersion)
	}
	if inst.Loader != "" {
		parts = append(parts, inst.Loader)
	}
	if len(parts) == 0 {
		return "this instance"
	}
	return strings.Join(parts, "/")
}

// downloadTask fetches a task's artifact into its target folder and returns
// the written path. Partial files are removed on error.
func downloadTask(ctx context.Context, client *http.Client, t *mod.DownloadTask) (string, error) {
	dir := t.Target.Dir()
	if t.CustomPath != "" {
		dir = filepath.Join(dir, t.CustomPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	dest := filepath.Join(dir, t.FileName())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.Version.DownloadURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, t.Version.DownloadURL)
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return "", err
	}
	return dest, nil
}

// recordInstall writes the committed tasks into the instance's installed
// index.
func recordInstall(ctx context.Context, inst *instance.Instance, tasks []*mod.DownloadTask) error {
	store, err := instance.OpenStore(indexPath(inst.Dir))
	if err != nil {
		return err
	}
	defer store.Close()
	return store.RecordTasks(ctx, inst.Dir, tasks, time.Now())
}

// indexPath returns the installed index location inside an instance.
func indexPath(instanceDir string) string {
	return filepath.Join(instanceDir, ".modsmith.db")
}
