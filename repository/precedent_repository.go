package repository

import (
	"context"
	"fmt"
	"log"

	"contractlens-backend/models"
)

// embeddingDim matches the embedding model's output size
const embeddingDim = 768

// PrecedentRepository stores and retrieves precedent clauses in a Qdrant
// collection
type PrecedentRepository struct {
	client     *QdrantClient
	collection string
}

// NewPrecedentRepository creates a new precedent repository
func NewPrecedentRepository(client *QdrantClient, collection string) *PrecedentRepository {
	return &PrecedentRepository{client: client, collection: collection}
}

// EnsureCollection creates the collection and its payload indexes if they do
// not already exist
func (r *PrecedentRepository) EnsureCollection(ctx context.Context) error {
	exists, err := r.client.CollectionExists(ctx, r.collection)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	if !exists {
		params := VectorParams{Size: embeddingDim, Distance: "Cosine"}
		if err := r.client.CreateCollection(ctx, r.collection, params); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", r.collection, err)
		}
	}

	// An already-indexed field comes back as an error status; not worth
	// failing startup over.
	for _, field := range []string{"clause_type", "contract_type"} {
		if err := r.client.CreatePayloadIndex(ctx, r.collection, field, "keyword"); err != nil {
			log.Printf("Warning: failed to create payload index on %s: %v", field, err)
		}
	}

	return nil
}

// Upsert inserts or replaces precedent points
func (r *PrecedentRepository) Upsert(ctx context.Context, points []PointStruct) error {
	if err := r.client.UpsertPoints(ctx, r.collection, points); err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

// SearchSimilar finds the closest precedent clauses to the query vector,
// restricted to the given clause type and contract type
func (r *PrecedentRepository) SearchSimilar(
	ctx context.Context,
	vector []float32,
	clauseType string,
	contractType string,
	limit int,
) ([]models.PrecedentMatch, error) {
	if len(vector) != embeddingDim {
		return nil, fmt.Errorf("embedding must be %d dimensions, got %d", embeddingDim, len(vector))
	}

	req := SearchRequest{
		Vector: vector,
		Filter: &Filter{
			Must: []FieldCondition{
				{Key: "clause_type", Match: MatchValue{Value: clauseType}},
				{Key: "contract_type", Match: MatchValue{Value: contractType}},
			},
		},
		Limit:       limit,
		WithPayload: true,
	}

	hits, err := r.client.SearchPoints(ctx, r.collection, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search precedents: %w", err)
	}

	matches := make([]models.PrecedentMatch, 0, len(hits))
	for _, hit := range hits {
		matches = append(matches, matchFromHit(hit))
	}
	return matches, nil
}

// matchFromHit maps a search hit onto a PrecedentMatch. The stable
// precedent_id from the payload is preferred over the numeric point ID.
func matchFromHit(hit ScoredPoint) models.PrecedentMatch {
	match := models.PrecedentMatch{
		ID:           fmt.Sprint(hit.ID),
		Score:        hit.Score,
		ClauseType:   payloadString(hit.Payload, "clause_type"),
		ContractType: payloadString(hit.Payload, "contract_type"),
		RiskLevel:    payloadString(hit.Payload, "risk_level"),
		Jurisdiction: payloadString(hit.Payload, "jurisdiction"),
		Text:         payloadString(hit.Payload, "text"),
	}
	if id := payloadString(hit.Payload, "precedent_id"); id != "" {
		match.ID = id
	}
	return match
}

func payloadString(payload map[string]interface{}, key string) string {
	if payload == nil {
		return ""
	}
	if s, ok := payload[key].(string); ok {
		return s
	}
	return ""
}
