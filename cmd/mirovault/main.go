// Command mirovault archives Miro boards to local disk (and optionally S3).
//
//	mirovault list                      write the board listing CSV
//	mirovault backup --csv-file f.csv   back up every board listed in f.csv
//	mirovault backup --board-id <id>    back up a single board
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hoshizora/mirovault/internal/backup"
	"github.com/hoshizora/mirovault/internal/config"
	"github.com/hoshizora/mirovault/internal/miro"
	"github.com/hoshizora/mirovault/internal/schema"
	localstore "github.com/hoshizora/mirovault/internal/store/local"
	s3store "github.com/hoshizora/mirovault/internal/store/s3"
)

func main() {
	setupLogging()

	if err := newRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

// setupLogging initializes structured logging from environment.
func setupLogging() {
	level, parseErr := zerolog.ParseLevel(os.Getenv("MIRO_LOG_LEVEL"))
	if parseErr != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if os.Getenv("MIRO_LOG_FORMAT") == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mirovault",
		Short:         "Point-in-time JSON backups of Miro boards",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newListCmd(), newBackupCmd())
	return root
}

func newListCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all boards reachable with the configured token into a CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.Backup.BoardList
			}

			client := newClient(cfg)
			lister := backup.NewLister(client, log.Logger)

			n, err := lister.Run(ctx, output)
			if err != nil {
				return err
			}

			fmt.Printf("wrote %d boards to %s\n", n, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "board list CSV path (default from MIRO_BOARD_LIST)")
	return cmd
}

func newBackupCmd() *cobra.Command {
	var (
		csvFile  string
		boardID  string
		interval int
	)

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up boards to schema-validated JSON archives",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (csvFile == "") == (boardID == "") {
				return fmt.Errorf("exactly one of --csv-file or --board-id is required")
			}
			if interval < 0 {
				return fmt.Errorf("--interval must be >= 0, got %d", interval)
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			svc, err := newService(ctx, cfg)
			if err != nil {
				return err
			}

			if boardID != "" {
				loc, err := svc.BackupBoard(ctx, boardID, "")
				if err != nil {
					return err
				}
				fmt.Printf("backup complete: %s\n", loc)
				return nil
			}

			entries, err := backup.ReadBoardList(csvFile)
			if err != nil {
				return err
			}
			log.Info().Int("boards", len(entries)).Str("csv", csvFile).Msg("board list loaded")

			done, err := svc.Run(ctx, entries, time.Duration(interval)*time.Second)
			if err != nil {
				return err
			}
			if done < len(entries) {
				return fmt.Errorf("backed up %d of %d boards", done, len(entries))
			}

			fmt.Printf("backed up %d boards to %s\n", done, cfg.Backup.Dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&csvFile, "csv-file", "c", "", "CSV with a board_id column")
	cmd.Flags().StringVarP(&boardID, "board-id", "b", "", "single board to back up")
	cmd.Flags().IntVarP(&interval, "interval", "i", 1, "seconds to wait between boards")
	return cmd
}

// newService wires the API client, schema validator, and archives.
func newService(ctx context.Context, cfg *config.Config) (*backup.Service, error) {
	validator, err := schema.New()
	if err != nil {
		return nil, err
	}

	local, err := localstore.New(cfg.Backup.Dir, log.Logger)
	if err != nil {
		return nil, err
	}
	archives := []backup.Archive{local}

	if cfg.S3.Bucket != "" {
		mirror, err := s3store.New(ctx, cfg.S3, log.Logger)
		if err != nil {
			return nil, err
		}
		archives = append(archives, mirror)
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("s3 mirror enabled")
	}

	return backup.NewService(newClient(cfg), validator, archives, log.Logger)
}

func newClient(cfg *config.Config) *miro.Client {
	return miro.NewClient(
		cfg.Miro.BaseURL,
		cfg.Miro.AccessToken,
		cfg.Miro.HTTPTimeout,
		cfg.Miro.PageLimit,
		cfg.Miro.RateLimit,
		cfg.Miro.RateBurst,
		log.Logger,
	)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
