package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Anwar-ar/DaveSaveEd/internal/config"
	"github.com/Anwar-ar/DaveSaveEd/internal/discover"
	"github.com/Anwar-ar/DaveSaveEd/internal/logging"
	"github.com/Anwar-ar/DaveSaveEd/internal/refdata"
	"github.com/Anwar-ar/DaveSaveEd/internal/savegame"
)

const appName = "DaveSaveEd"

var rootCmd = &cobra.Command{
	Use:           "davesaveed",
	Short:         "davesaveed - Dave the Diver save game editor",
	SilenceUsage:  true,
	SilenceErrors: false,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Load a save file and print player values",
	RunE:  runShow,
}

var setCmd = &cobra.Command{
	Use:       "set {gold|bei|flame|followers} <value>",
	Short:     "Set a player value and write the save (with backup)",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"gold", "bei", "flame", "followers"},
	RunE:      runSet,
}

var maxCmd = &cobra.Command{
	Use:       "max {own-ingredients|all-ingredients|materials|staff}",
	Short:     "Run a bulk maxing operation and write the save (with backup)",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"own-ingredients", "all-ingredients", "materials", "staff"},
	RunE:      runMax,
}

var dumpCmd = &cobra.Command{
	Use:       "dump {save|refdb}",
	Short:     "Dump the decoded save or the reference database to a text file",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"save", "refdb"},
	RunE:      runDump,
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Print the detected save directory and newest save file",
	RunE:  runDiscover,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE:  runInit,
}

var (
	fileFlag  string
	refDBFlag string
	outFlag   string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&fileFlag, "file", "f", "", "Save file path (default: newest discovered save)")
	rootCmd.PersistentFlags().StringVar(&refDBFlag, "refdb", "", "Reference database (.db, .sql or .sql.gz)")
	dumpCmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output path")
	rootCmd.AddCommand(showCmd, setCmd, maxCmd, dumpCmd, discoverCmd, initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the process-wide log sink from config. The engine only
// sees the logging.Logger interface.
func newLogger(cfg *config.Config) (*logging.Sink, error) {
	if cfg.Log.File {
		return logging.NewFile(os.Stderr, appName, cfg.Log.Dir)
	}
	return logging.New(os.Stderr), nil
}

// resolveSavePath picks the save file: --file flag, config, then discovery.
func resolveSavePath(cfg *config.Config) (string, error) {
	if fileFlag != "" {
		return fileFlag, nil
	}
	if cfg.Save.File != "" {
		return cfg.Save.File, nil
	}
	dir := cfg.Save.Dir
	if dir == "" {
		var err error
		dir, err = discover.SaveDir()
		if err != nil {
			return "", err
		}
	}
	return discover.LatestSaveFile(dir)
}

func loadManager(cfg *config.Config, lg *logging.Sink) (*savegame.Manager, error) {
	path, err := resolveSavePath(cfg)
	if err != nil {
		return nil, err
	}
	mgr := savegame.NewManager(lg)
	mgr.BackupDir = cfg.Backup.Dir
	if err := mgr.Load(path); err != nil {
		return nil, err
	}
	return mgr, nil
}

func openRefData(cfg *config.Config, lg *logging.Sink) (*refdata.Store, error) {
	path := refDBFlag
	if path == "" {
		path = cfg.RefDB
	}
	if path == "" {
		return nil, fmt.Errorf("no reference database configured (use --refdb or set refDb in %s)", config.ConfigPath())
	}
	return refdata.Open(path, lg)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	lg, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer lg.Close()

	mgr, err := loadManager(cfg, lg)
	if err != nil {
		return err
	}

	fmt.Printf("Save file: %s\n", mgr.Path())
	fmt.Printf("Gold:           %d\n", mgr.GetGold())
	fmt.Printf("Bei:            %d\n", mgr.GetBei())
	fmt.Printf("Artisan's Flame: %d\n", mgr.GetArtisansFlame())
	fmt.Printf("Followers:      %d\n", mgr.GetFollowerCount())
	return nil
}

func runSet(cmd *cobra.Command, args []string) error {
	field := args[0]
	value, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[1], err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	lg, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer lg.Close()

	mgr, err := loadManager(cfg, lg)
	if err != nil {
		return err
	}

	switch field {
	case "gold":
		mgr.SetGold(value)
	case "bei":
		mgr.SetBei(value)
	case "flame":
		mgr.SetArtisansFlame(value)
	case "followers":
		mgr.SetFollowerCount(value)
	default:
		return fmt.Errorf("unknown field %q", field)
	}

	backup, err := mgr.Write()
	if err != nil {
		return err
	}
	fmt.Printf("Save written. Backup: %s\n", backup)
	return nil
}

func runMax(cmd *cobra.Command, args []string) error {
	op := args[0]

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	lg, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer lg.Close()

	mgr, err := loadManager(cfg, lg)
	if err != nil {
		return err
	}

	var ref *refdata.Store
	if op != "staff" {
		ref, err = openRefData(cfg, lg)
		if err != nil {
			return err
		}
		defer ref.Close()
	}

	var rep savegame.MutationReport
	switch op {
	case "own-ingredients":
		rep, err = mgr.MaxOwnIngredients(ref)
	case "all-ingredients":
		rep, err = mgr.MaxAllIngredients(ref)
	case "materials":
		rep, err = mgr.MaxOwnMaterials(ref)
	case "staff":
		rep, err = mgr.MaxOwnStaffLevel()
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
	if err != nil {
		return err
	}

	backup, err := mgr.Write()
	if err != nil {
		return err
	}
	fmt.Printf("Updated %d, added %d, skipped %d.\n", rep.Updated, rep.Added, rep.Skipped)
	fmt.Printf("Save written. Backup: %s\n", backup)
	return nil
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	lg, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer lg.Close()

	switch args[0] {
	case "save":
		mgr, err := loadManager(cfg, lg)
		if err != nil {
			return err
		}
		out := outFlag
		if out == "" {
			out = "save_dump.txt"
		}
		if err := os.WriteFile(out, mgr.Document().Pretty(), 0644); err != nil {
			return fmt.Errorf("write save dump: %w", err)
		}
		fmt.Printf("Save dumped to %s\n", out)
	case "refdb":
		ref, err := openRefData(cfg, lg)
		if err != nil {
			return err
		}
		defer ref.Close()
		out := outFlag
		if out == "" {
			out = "db_dump.txt"
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create refdb dump: %w", err)
		}
		if err := ref.DumpTables(f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("Reference database dumped to %s\n", out)
	default:
		return fmt.Errorf("unknown dump target %q", args[0])
	}
	return nil
}

func runDiscover(cmd *cobra.Command, args []string) error {
	dir, err := discover.SaveDir()
	if err != nil {
		return err
	}
	fmt.Printf("Save directory: %s\n", dir)

	latest, err := discover.LatestSaveFile(dir)
	if err != nil {
		fmt.Println("No save files found.")
		return nil
	}
	fmt.Printf("Newest save:    %s\n", latest)
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.ConfigPath()
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config already exists: %s\n", path)
		return nil
	}
	if err := config.Save(config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("Created config: %s\n", path)
	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Point refDb in %s at the reference database\n", path)
	fmt.Println("  2. Run 'davesaveed discover' to check save detection")
	fmt.Println("  3. Run 'davesaveed show' to inspect the newest save")
	return nil
}
