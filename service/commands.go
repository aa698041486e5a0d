package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"commentboard/app/config"
	"commentboard/app/repositories"

	"github.com/spf13/cobra"
)

func (c *cli) newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.initStore(cmd.OutOrStdout())
		},
	}
}

func (c *cli) newCleanCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the store and every comment in it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.clean(cmd.InOrStdin(), cmd.OutOrStdout(), yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (c *cli) newBackupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a timestamped backup of the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.backup(cmd.OutOrStdout(), time.Now())
			return err
		},
	}
	cmd.Flags().String("dir", "data/backups", "backup directory")
	_ = c.v.BindPFlag("store.backup_dir", cmd.Flags().Lookup("dir"))
	return cmd
}

func (c *cli) newRestoreCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore <backup-file>",
		Short: "Replace the store with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.restore(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// initStore creates an empty store at the configured location.
func (c *cli) initStore(out io.Writer) error {
	location := storeLocation(c.cfg.Store)
	if exists(location) {
		fmt.Fprintln(out, "Store already exists. Use 'clean' first if you want to reinitialize.")
		return nil
	}

	st, err := openStore(c.cfg.Store, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	if err := st.Close(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Store initialized at %s\n", location)
	return nil
}

// clean removes the store after confirmation.
func (c *cli) clean(in io.Reader, out io.Writer, yes bool) error {
	location := storeLocation(c.cfg.Store)
	if !exists(location) {
		fmt.Fprintln(out, "Store is already clean (does not exist)")
		return nil
	}

	if !yes && !confirm(in, out, "Are you sure you want to clean the store? This cannot be undone.") {
		fmt.Fprintln(out, "Operation cancelled")
		return nil
	}

	if err := os.RemoveAll(location); err != nil {
		return fmt.Errorf("failed to clean store: %w", err)
	}
	fmt.Fprintln(out, "Store cleaned successfully")
	return nil
}

// backup copies the store into the backup directory and returns the file
// it wrote.
func (c *cli) backup(out io.Writer, now time.Time) (string, error) {
	location := storeLocation(c.cfg.Store)
	if !exists(location) {
		fmt.Fprintln(out, "No store exists to backup")
		return "", nil
	}

	backupDir := c.cfg.Store.BackupDir
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	var backupFile string
	if c.cfg.Store.Driver == config.DriverBadger {
		backupFile = filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", now.Unix()))
		if err := c.backupBadger(backupFile); err != nil {
			return "", err
		}
	} else {
		backupFile = filepath.Join(backupDir, fmt.Sprintf("backup_%d.json", now.Unix()))
		data, err := os.ReadFile(location)
		if err != nil {
			return "", fmt.Errorf("failed to read store: %w", err)
		}
		if err := os.WriteFile(backupFile, data, 0644); err != nil {
			return "", fmt.Errorf("failed to write backup file: %w", err)
		}
	}

	fmt.Fprintf(out, "Store backed up successfully to %s\n", backupFile)
	return backupFile, nil
}

func (c *cli) backupBadger(backupFile string) error {
	db, err := openBadger(c.cfg.Store.BadgerDir, c.logger)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Create(backupFile)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		return fmt.Errorf("failed to backup database: %w", err)
	}
	return nil
}

// restore replaces the store with backupFile after confirmation.
func (c *cli) restore(in io.Reader, out io.Writer, backupFile string, yes bool) error {
	fi, err := os.Stat(backupFile)
	if err != nil {
		return fmt.Errorf("backup file does not exist: %s", backupFile)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupFile)
	}

	// A JSON backup must parse before anything is replaced.
	if c.cfg.Store.Driver != config.DriverBadger {
		if _, err := repositories.NewJSONFileCommentRepository(backupFile).List(); err != nil {
			return fmt.Errorf("invalid backup file: %w", err)
		}
	}

	location := storeLocation(c.cfg.Store)
	if exists(location) {
		if !yes && !confirm(in, out, "Existing store found. Do you want to replace it?") {
			fmt.Fprintln(out, "Operation cancelled")
			return nil
		}
		if err := os.RemoveAll(location); err != nil {
			return fmt.Errorf("failed to remove existing store: %w", err)
		}
	}

	if c.cfg.Store.Driver == config.DriverBadger {
		if err := c.restoreBadger(backupFile); err != nil {
			return err
		}
	} else {
		data, err := os.ReadFile(backupFile)
		if err != nil {
			return fmt.Errorf("failed to read backup file: %w", err)
		}
		if err := ensureParent(location); err != nil {
			return err
		}
		if err := os.WriteFile(location, data, 0644); err != nil {
			return fmt.Errorf("failed to restore store: %w", err)
		}
	}

	fmt.Fprintln(out, "Store restored successfully")
	return nil
}

func (c *cli) restoreBadger(backupFile string) (err error) {
	db, err := openBadger(c.cfg.Store.BadgerDir, c.logger)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic occurred during restore: %v", r)
		}
	}()
	if err := db.Load(f, 4); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}
