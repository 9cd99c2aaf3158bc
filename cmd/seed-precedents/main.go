package main

import (
	"context"
	"log"
	"time"

	"contractlens-backend/config"
	"contractlens-backend/gemini"
	"contractlens-backend/repository"

	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
)

type precedent struct {
	ID           string
	ClauseType   string
	ContractType string
	RiskLevel    string
	Jurisdiction string
	Text         string
}

var precedents = []precedent{
	// Limitation of liability, customer-friendly (cap, carve-outs)
	{
		ID:           "liab_saas_customer_friendly_1",
		ClauseType:   "limitation_of_liability",
		ContractType: "saas",
		RiskLevel:    "low",
		Jurisdiction: "England and Wales",
		Text: `The Supplier's aggregate liability arising out of or in connection with this Agreement,
whether in contract, tort (including negligence) or otherwise, shall not exceed an amount
equal to the Fees paid or payable by the Customer under this Agreement in the twelve (12)
months immediately preceding the event giving rise to the claim.

Nothing in this Agreement excludes or limits either party's liability for death or personal
injury caused by negligence, fraud or fraudulent misrepresentation, or any other liability
which cannot lawfully be excluded or limited.`,
	},
	// Limitation of liability, supplier-friendly (almost no liability)
	{
		ID:           "liab_saas_supplier_friendly_1",
		ClauseType:   "limitation_of_liability",
		ContractType: "saas",
		RiskLevel:    "high",
		Jurisdiction: "England and Wales",
		Text: `To the fullest extent permitted by law, the Supplier shall have no liability to the Customer
arising out of or in connection with this Agreement, whether in contract, tort (including
negligence) or otherwise.`,
	},
	// Governing law, standard English law
	{
		ID:           "govlaw_england_wales_1",
		ClauseType:   "governing_law",
		ContractType: "saas",
		RiskLevel:    "low",
		Jurisdiction: "England and Wales",
		Text: `This Agreement and any dispute or claim (including non-contractual disputes or claims)
arising out of or in connection with it or its subject matter or formation shall be
governed by and construed in accordance with the laws of England and Wales.`,
	},
	// Governing law, foreign law (higher risk for an English customer)
	{
		ID:           "govlaw_newyork_1",
		ClauseType:   "governing_law",
		ContractType: "saas",
		RiskLevel:    "medium",
		Jurisdiction: "New York",
		Text: `This Agreement shall be governed by and construed in accordance with the laws of the State
of New York, without regard to its conflict of law provisions.`,
	},
	// Termination, reasonable notice
	{
		ID:           "termination_30_days_1",
		ClauseType:   "termination",
		ContractType: "saas",
		RiskLevel:    "low",
		Jurisdiction: "England and Wales",
		Text: `Either party may terminate this Agreement for convenience by giving the other party not less
than thirty (30) days' prior written notice.

Either party may terminate this Agreement with immediate effect by written notice if the
other party commits a material breach which is not remedied (if remediable) within thirty
(30) days after receipt of written notice describing the breach.`,
	},
	// Termination, very supplier-friendly (immediate termination)
	{
		ID:           "termination_immediate_supplier_1",
		ClauseType:   "termination",
		ContractType: "saas",
		RiskLevel:    "high",
		Jurisdiction: "England and Wales",
		Text: `The Supplier may terminate this Agreement at any time, with immediate effect and without
cause, by giving written notice to the Customer. The Customer shall have no right to any
refund of Fees paid in advance.`,
	},
}

func main() {
	// Load .env file from project root (relative to cmd/seed-precedents/)
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	ctx := context.Background()

	geminiClient, err := gemini.NewClient(ctx, cfg.Gemini.APIKey,
		gemini.WithEmbeddingModel(cfg.Gemini.EmbeddingModel),
	)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini: %v", err)
	}
	defer geminiClient.Close()

	qdrantClient := repository.NewQdrantClient(cfg.Qdrant.URL, cfg.Qdrant.APIKey)
	precedentRepo := repository.NewPrecedentRepository(qdrantClient, cfg.Qdrant.Collection)

	log.Printf("Ensuring collection %q exists...", cfg.Qdrant.Collection)
	if err := precedentRepo.EnsureCollection(ctx); err != nil {
		log.Fatalf("Failed to prepare collection: %v", err)
	}

	log.Printf("Building embeddings for %d precedents...", len(precedents))
	points := make([]repository.PointStruct, 0, len(precedents))
	for idx, item := range precedents {
		log.Printf("🔄 Embedding %s", item.ID)
		vector, err := geminiClient.EmbedText(ctx, item.Text, genai.TaskTypeRetrievalDocument)
		if err != nil {
			log.Fatalf("❌ Failed to embed %s: %v", item.ID, err)
		}

		points = append(points, repository.PointStruct{
			ID:     uint64(idx),
			Vector: vector,
			Payload: map[string]interface{}{
				"clause_type":   item.ClauseType,
				"contract_type": item.ContractType,
				"risk_level":    item.RiskLevel,
				"jurisdiction":  item.Jurisdiction,
				"text":          item.Text,
				"precedent_id":  item.ID,
			},
		})

		// Rate limiting
		time.Sleep(100 * time.Millisecond)
	}

	log.Println("Upserting precedents into Qdrant...")
	if err := precedentRepo.Upsert(ctx, points); err != nil {
		log.Fatalf("❌ Failed to upsert precedents: %v", err)
	}

	log.Printf("✅ Seeded %d precedents successfully", len(points))
}
