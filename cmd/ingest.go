/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/thiiagovboas/eureca-assistant/config"
	"github.com/thiiagovboas/eureca-assistant/database"
	"github.com/thiiagovboas/eureca-assistant/service"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Process the knowledge-base documents and build the search index",
	Long: `Converts the configured documents, splits them into overlapping chunks,
embeds the chunks and loads them into the configured index backend.

With the in-memory backend this is a dry run that validates the whole
pipeline; with Weaviate the index persists for the server to use.`,
	Run: func(cmd *cobra.Command, args []string) {
		reindex, _ := cmd.Flags().GetBool("reindex")

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		store := service.NewDocumentStore(cfg.Documents, service.NewDocumentConverter())
		embedder := service.NewOpenAIService(
			cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model, cfg.EmbeddingModel, cfg.Temperature)

		var backend database.VectorIndex = database.NewMemoryIndex()
		if cfg.IndexBackend == config.IndexBackendWeaviate {
			weaviateDb, err := database.NewWeaviateStore(database.WeaviateConfig{
				Host:   cfg.WeaviateStoreConfig.Host,
				APIKey: cfg.WeaviateStoreConfig.APIKey,
				Class:  cfg.WeaviateStoreConfig.Class,
			})
			if err != nil {
				log.Fatalf("Failed to connect to Weaviate database: %v", err)
			}
			backend = weaviateDb
		} else {
			fmt.Println("Index backend is in-memory: running as a pipeline dry run")
		}

		indexService := service.NewIndexService(store, embedder, backend, service.IndexConfig{
			ChunkSize:     cfg.ChunkSize,
			ChunkOverlap:  cfg.ChunkOverlap,
			CacheDuration: cfg.CacheDuration,
		})

		if reindex {
			indexService.MarkDirty()
		}
		if err := indexService.EnsureIndex(context.Background()); err != nil {
			log.Fatalf("Index build failed: %v", err)
		}

		status := indexService.Status()
		for _, doc := range status.Documents {
			state := "ok"
			if !doc.Present {
				state = "missing"
			}
			fmt.Printf("  %-16s %-8s %s\n", doc.ID, state, doc.Path)
		}
		fmt.Printf("Indexed %d chunks from %d documents\n", status.ChunkCount, len(status.Documents))
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().BoolP("reindex", "r", false, "Force a rebuild even when the cached index is still valid")
}
