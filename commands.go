package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"telugu-tokenizer/pkg/archive"
	"telugu-tokenizer/pkg/collector"
	"telugu-tokenizer/pkg/pipeline"
	"telugu-tokenizer/pkg/publish"
	"telugu-tokenizer/pkg/sources"
	"telugu-tokenizer/pkg/tokenizer"
	"telugu-tokenizer/pkg/tokenizer/bpe"
)

type runMode int

const (
	fullRun runMode = iota
	collectOnly
	trainOnly
)

func newCollectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collect",
		Short: "Collect the corpus and persist the dataset, without training",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd.Context(), collectOnly)
		},
	}
}

func newTrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train and validate a tokenizer from the persisted dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd.Context(), trainOnly)
		},
	}
}

func newPublishCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "publish <repo-id>",
		Short: "Upload the model artifact directory to the remote registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv("TELUGUTOK_PUBLISH_TOKEN")
			}
			if token == "" {
				return fmt.Errorf("missing auth token: pass --token or set TELUGUTOK_PUBLISH_TOKEN")
			}
			if activeCfg.Publish.SupabaseURL == "" {
				return fmt.Errorf("publish.supabase_url is not configured")
			}

			publisher := publish.NewPublisher(activeCfg.Publish.SupabaseURL)
			if err := publisher.Upload(cmd.Context(), activeCfg.Paths.ModelDir, args[0], token); err != nil {
				// A publish failure never invalidates the local run.
				log.Errorf("%v", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Registry auth token")
	return cmd
}

func runPipeline(ctx context.Context, mode runMode) error {
	store, archived, ledger, cleanup, err := openSinks(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	srcs := sources.DefaultSources()
	feeds, err := sources.FeedSources(activeCfg.Collect.Feeds)
	if err != nil {
		return err
	}
	srcs = append(srcs, feeds...)

	runner := pipeline.NewRunner(pipeline.Config{
		Collect: collector.Config{
			TargetDocuments: activeCfg.Collect.TargetDocuments,
			MaxConcurrent:   activeCfg.Collect.MaxConcurrent,
			Timeout:         activeCfg.Collect.Timeout,
			ProgressEvery:   activeCfg.Collect.ProgressEvery,
			DiscoverBackoff: collector.DefaultBackoff,
			BatchPause:      collector.DefaultConfig().BatchPause,
			SkipURLs:        archived,
		},
		Train: tokenizer.Config{
			VocabSize:     activeCfg.Train.VocabSize,
			MinFrequency:  activeCfg.Train.MinFrequency,
			SpecialTokens: activeCfg.Train.SpecialTokens,
			ModelType:     activeCfg.Train.ModelType,
		},
		ChunkThreshold: activeCfg.Collect.ChunkThreshold,
		DatasetPath:    activeCfg.Paths.DatasetPath,
		ModelDir:       activeCfg.Paths.ModelDir,
	}, pipeline.Options{
		Sources:      srcs,
		Engine:       bpe.NewEngine(),
		PersistModel: persistBPEModel,
		Store:        store,
		Ledger:       ledger,
	})

	switch mode {
	case collectOnly:
		_, _, err := runner.Collect(ctx)
		return err
	case trainOnly:
		return runner.TrainFromDataset(ctx)
	default:
		return runner.Run(ctx)
	}
}

// persistBPEModel bridges the pipeline's engine-agnostic persister to the
// default BPE implementation.
func persistBPEModel(model tokenizer.Model, dir string) error {
	m, ok := model.(*bpe.Model)
	if !ok {
		return fmt.Errorf("cannot persist model of type %T", model)
	}
	return bpe.Save(m, dir)
}

// openSinks connects the optional archive store and run ledger. A sink
// that fails to connect is skipped with a warning; the run proceeds. When
// the archive is available, its already-stored URLs are returned so the
// collector can skip refetching them.
func openSinks(ctx context.Context) (collector.DocumentStore, map[string]bool, *archive.RunLedger, func(), error) {
	var store *archive.MongoStore
	var archived map[string]bool
	var ledger *archive.RunLedger

	if activeCfg.Archive.MongoURI != "" {
		s, err := archive.NewMongoStore(ctx, activeCfg.Archive.MongoURI,
			activeCfg.Archive.MongoDatabase, activeCfg.Archive.MongoCollection)
		if err != nil {
			log.Warnf("document archive disabled: %v", err)
		} else {
			store = s
			urls, err := s.ArchivedURLs(ctx)
			if err != nil {
				log.Warnf("listing archived URLs failed: %v", err)
			} else {
				archived = urls
				log.Infof("document archive holds %d URLs, re-fetches will be skipped", len(urls))
			}
		}
	}

	if activeCfg.Archive.PostgresDSN != "" {
		l, err := archive.NewRunLedger(ctx, activeCfg.Archive.PostgresDSN)
		if err != nil {
			log.Warnf("run ledger disabled: %v", err)
		} else {
			ledger = l
		}
	}

	cleanup := func() {
		if store != nil {
			if err := store.Close(context.Background()); err != nil {
				log.Warnf("close document archive: %v", err)
			}
		}
		if ledger != nil {
			if err := ledger.Close(); err != nil {
				log.Warnf("close run ledger: %v", err)
			}
		}
	}

	if store == nil {
		return nil, archived, ledger, cleanup, nil
	}
	return store, archived, ledger, cleanup, nil
}

func setupLogger(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
