package main

import (
	"context"
	"log"
	"os"
	"strings"

	"campushire/recruiting-api/internal/config"
	"campushire/recruiting-api/internal/repositories"
	"campushire/recruiting-api/internal/services"
)

// Rebuilds the job-description index from the database. Run after wiping the
// vector store or changing the chunking parameters.
func main() {
	log.Println("🚀 Starting job description reindex...")

	// Load configuration
	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	jobRepo := repositories.NewJobRepository(db)

	// Initialize services
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	chunker := services.NewTextChunker()

	ctx := context.Background()

	successCount := 0
	failCount := 0

	// Page through the active postings; closed postings are never scored
	// against, so they stay out of the index.
	const pageSize = 50
	for offset := 0; ; offset += pageSize {
		jobs, _, err := jobRepo.ListActive(ctx, offset, pageSize)
		if err != nil {
			log.Fatalf("❌ Failed to list jobs: %v", err)
		}
		if len(jobs) == 0 {
			break
		}

		for _, job := range jobs {
			log.Printf("\n📄 Processing: %s (%s)", job.Title, job.ID)

			// Drop stale entries first so edits do not accumulate.
			if err := qdrantService.DeleteJob(ctx, job.ID.String()); err != nil {
				log.Printf("   ⚠️  Failed to drop old entries: %v", err)
			}

			log.Printf("   ✂️  Chunking description...")
			chunks := chunker.ChunkText(job.Description, 1000, 200)
			log.Printf("   ✅ Created %d chunks", len(chunks))

			log.Printf("   🔄 Embedding and storing chunks...")
			chunkFailures := 0
			for i, chunk := range chunks {
				embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
				if err != nil {
					log.Printf("   ❌ Failed to generate embedding for chunk %d: %v", i+1, err)
					chunkFailures++
					continue
				}

				if err := qdrantService.UpsertChunk(ctx, job.ID.String(), chunk, embedding); err != nil {
					log.Printf("   ❌ Failed to store chunk %d: %v", i+1, err)
					chunkFailures++
					continue
				}

				if (i+1)%5 == 0 || i == len(chunks)-1 {
					log.Printf("   📊 Progress: %d/%d chunks stored", i+1, len(chunks))
				}
			}

			if chunkFailures > 0 {
				log.Printf("   ⚠️  %d chunks failed for %s", chunkFailures, job.Title)
				failCount++
				continue
			}

			log.Printf("   ✅ Successfully reindexed %s", job.Title)
			successCount++
		}
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Reindex Summary:")
	log.Printf("   ✅ Successful: %d jobs", successCount)
	log.Printf("   ❌ Failed: %d jobs", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some jobs failed to reindex. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All jobs reindexed successfully!")
}
