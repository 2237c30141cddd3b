// Package qdrant provides a section store backed by a Qdrant server over gRPC.
//
// Sections live in one collection with cosine distance. Generation metadata
// lives in a one-point companion collection ("<collection>_generation") that
// is written last on upsert and deleted first, so a missing metadata point
// means "no collection".
package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/custodia-labs/specmcp/internal/adapters/driven/storage/vector"
	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
)

// Ensure SectionStore implements the interface.
var _ driven.SectionStore = (*SectionStore)(nil)

// upsertBatch bounds the number of points sent per Upsert request.
const upsertBatch = 256

// scrollLimit bounds how many points sharing one URL are inspected.
const scrollLimit = 64

// Payload keys.
const (
	keyID         = "id"
	keySeq        = "seq"
	keyTitle      = "title"
	keyContent    = "content"
	keyURL        = "url"
	keySpec       = "spec"
	keyGeneration = "generation"
	keySections   = "sections"
	keyDimensions = "dimensions"
	keyCreatedAt  = "created_at"
)

// sectionNamespace derives stable point ids from section ids.
var sectionNamespace = uuid.MustParse("6f1c9a52-3f0e-5d1b-9c7a-2e8d4b6a1f03")

// metaPointID is the id of the single point in the generation collection.
var metaPointID = uuid.NewSHA1(sectionNamespace, []byte("generation")).String()

// pointsAPI is the subset of pb.PointsClient the store uses.
type pointsAPI interface {
	Upsert(ctx context.Context, in *pb.UpsertPoints, opts ...grpc.CallOption) (*pb.PointsOperationResponse, error)
	Search(ctx context.Context, in *pb.SearchPoints, opts ...grpc.CallOption) (*pb.SearchResponse, error)
	Scroll(ctx context.Context, in *pb.ScrollPoints, opts ...grpc.CallOption) (*pb.ScrollResponse, error)
	Get(ctx context.Context, in *pb.GetPoints, opts ...grpc.CallOption) (*pb.GetResponse, error)
}

// collectionsAPI is the subset of pb.CollectionsClient the store uses.
type collectionsAPI interface {
	List(ctx context.Context, in *pb.ListCollectionsRequest, opts ...grpc.CallOption) (*pb.ListCollectionsResponse, error)
	Create(ctx context.Context, in *pb.CreateCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
	Delete(ctx context.Context, in *pb.DeleteCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
}

// SectionStore is a Qdrant-backed implementation of driven.SectionStore.
type SectionStore struct {
	conn        *grpc.ClientConn
	points      pointsAPI
	collections collectionsAPI
	collection  string
	meta        string
}

// New creates a SectionStore connected to Qdrant at the given gRPC address.
// The connection is established lazily on the first call.
func New(addr, collection string) (*SectionStore, error) {
	if addr == "" {
		addr = domain.DefaultQdrantAddr
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant: dial %s: %w", addr, err)
	}
	s := NewWithClients(pb.NewPointsClient(conn), pb.NewCollectionsClient(conn), collection)
	s.conn = conn
	return s, nil
}

// NewWithClients creates a SectionStore over existing gRPC clients.
func NewWithClients(points pointsAPI, collections collectionsAPI, collection string) *SectionStore {
	if collection == "" {
		collection = domain.DefaultCollection
	}
	return &SectionStore{
		points:      points,
		collections: collections,
		collection:  collection,
		meta:        collection + "_generation",
	}
}

// Close closes the underlying gRPC connection.
func (s *SectionStore) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// Upsert deletes both collections, recreates them and writes sections,
// recording the generation last.
func (s *SectionStore) Upsert(ctx context.Context, sections []domain.Section) error {
	dims, err := vector.CheckBatch(sections)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	if err := s.dropIfExists(ctx, s.meta); err != nil {
		return err
	}
	if err := s.dropIfExists(ctx, s.collection); err != nil {
		return err
	}

	createDims := dims
	if createDims == 0 {
		createDims = 1
	}
	if err := s.create(ctx, s.collection, createDims); err != nil {
		return err
	}

	for start := 0; start < len(sections); start += upsertBatch {
		end := min(start+upsertBatch, len(sections))
		points := make([]*pb.PointStruct, 0, end-start)
		for i := start; i < end; i++ {
			points = append(points, sectionToPoint(sections[i], i))
		}
		if err := s.upsertPoints(ctx, s.collection, points); err != nil {
			return err
		}
	}

	if err := s.create(ctx, s.meta, 1); err != nil {
		return err
	}
	stats := domain.StoreStats{
		Exists:     true,
		Generation: uuid.New().String(),
		Sections:   len(sections),
		Dimensions: dims,
		CreatedAt:  time.Now().UTC(),
	}
	return s.upsertPoints(ctx, s.meta, []*pb.PointStruct{statsToPoint(stats)})
}

// GetByURL returns the section with the given URL that was upserted first.
func (s *SectionStore) GetByURL(ctx context.Context, url string) (*domain.Section, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if !stats.Exists {
		return nil, domain.ErrNotFound
	}

	limit := uint32(scrollLimit)
	resp, err := s.points.Scroll(ctx, &pb.ScrollPoints{
		CollectionName: s.collection,
		Filter:         &pb.Filter{Must: []*pb.Condition{fieldMatch(keyURL, url)}},
		Limit:          &limit,
		WithPayload:    withPayload(),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: scroll %s: %w", s.collection, err)
	}

	var best *domain.Section
	bestSeq := int64(-1)
	for _, p := range resp.GetResult() {
		seq := p.GetPayload()[keySeq].GetIntegerValue()
		if best == nil || seq < bestSeq {
			sec := payloadToSection(p.GetPayload())
			best, bestSeq = &sec, seq
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	return best, nil
}

// Search runs a k-NN query and maps cosine similarity to distance.
func (s *SectionStore) Search(ctx context.Context, vec []float32, limit int) ([]domain.Section, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if !stats.Exists || stats.Sections == 0 {
		return []domain.Section{}, nil
	}
	if err := vector.CheckQuery(vec, stats.Dimensions); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         vec,
		Limit:          uint64(limit),
		WithPayload:    withPayload(),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: search %s: %w", s.collection, err)
	}

	out := make([]domain.Section, 0, len(resp.GetResult()))
	for _, r := range resp.GetResult() {
		sec := payloadToSection(r.GetPayload())
		d := 1 - float64(r.GetScore())
		sec.Distance = &d
		out = append(out, sec)
	}
	return out, nil
}

// Stats reads the generation point. A missing point means no collection.
func (s *SectionStore) Stats(ctx context.Context) (domain.StoreStats, error) {
	exists, err := s.exists(ctx, s.meta)
	if err != nil {
		return domain.StoreStats{}, err
	}
	if !exists {
		return domain.StoreStats{}, nil
	}

	resp, err := s.points.Get(ctx, &pb.GetPoints{
		CollectionName: s.meta,
		Ids:            []*pb.PointId{uuidPointID(metaPointID)},
		WithPayload:    withPayload(),
	})
	if err != nil {
		return domain.StoreStats{}, fmt.Errorf("%w: qdrant: get generation: %w", domain.ErrStoreUnavailable, err)
	}
	if len(resp.GetResult()) == 0 {
		return domain.StoreStats{}, nil
	}
	return pointToStats(resp.GetResult()[0].GetPayload()), nil
}

func (s *SectionStore) exists(ctx context.Context, name string) (bool, error) {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return false, fmt.Errorf("%w: qdrant: list collections: %w", domain.ErrStoreUnavailable, err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *SectionStore) dropIfExists(ctx context.Context, name string) error {
	exists, err := s.exists(ctx, name)
	if err != nil || !exists {
		return err
	}
	if _, err := s.collections.Delete(ctx, &pb.DeleteCollection{CollectionName: name}); err != nil {
		return fmt.Errorf("qdrant: delete collection %s: %w", name, err)
	}
	return nil
}

func (s *SectionStore) create(ctx context.Context, name string, dims int) error {
	_, err := s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: name,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant: create collection %s: %w", name, err)
	}
	return nil
}

func (s *SectionStore) upsertPoints(ctx context.Context, name string, points []*pb.PointStruct) error {
	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: name,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert %d points into %s: %w", len(points), name, err)
	}
	return nil
}
