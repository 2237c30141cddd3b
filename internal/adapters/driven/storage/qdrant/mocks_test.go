package qdrant

import (
	"context"
	"errors"
	"sort"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"

	"github.com/custodia-labs/specmcp/internal/adapters/driven/storage/vector"
)

// fakeQdrant keeps collections in memory and answers both client interfaces.
type fakeQdrant struct {
	collections map[string]map[string]*pb.PointStruct
	order       []string
	listErr     error
	searchErr   error
	lastSearch  *pb.SearchPoints
}

func newFakeQdrant() *fakeQdrant {
	return &fakeQdrant{collections: make(map[string]map[string]*pb.PointStruct)}
}

type fakePoints struct{ q *fakeQdrant }

type fakeCollections struct{ q *fakeQdrant }

func (f *fakeQdrant) store() *SectionStore {
	return NewWithClients(&fakePoints{q: f}, &fakeCollections{q: f}, "")
}

func (c *fakeCollections) List(
	_ context.Context, _ *pb.ListCollectionsRequest, _ ...grpc.CallOption,
) (*pb.ListCollectionsResponse, error) {
	if c.q.listErr != nil {
		return nil, c.q.listErr
	}
	resp := &pb.ListCollectionsResponse{}
	for name := range c.q.collections {
		resp.Collections = append(resp.Collections, &pb.CollectionDescription{Name: name})
	}
	return resp, nil
}

func (c *fakeCollections) Create(
	_ context.Context, in *pb.CreateCollection, _ ...grpc.CallOption,
) (*pb.CollectionOperationResponse, error) {
	if _, ok := c.q.collections[in.GetCollectionName()]; ok {
		return nil, errors.New("collection already exists")
	}
	c.q.collections[in.GetCollectionName()] = make(map[string]*pb.PointStruct)
	c.q.order = append(c.q.order, "create "+in.GetCollectionName())
	return &pb.CollectionOperationResponse{Result: true}, nil
}

func (c *fakeCollections) Delete(
	_ context.Context, in *pb.DeleteCollection, _ ...grpc.CallOption,
) (*pb.CollectionOperationResponse, error) {
	delete(c.q.collections, in.GetCollectionName())
	c.q.order = append(c.q.order, "delete "+in.GetCollectionName())
	return &pb.CollectionOperationResponse{Result: true}, nil
}

func (p *fakePoints) Upsert(
	_ context.Context, in *pb.UpsertPoints, _ ...grpc.CallOption,
) (*pb.PointsOperationResponse, error) {
	col, ok := p.q.collections[in.GetCollectionName()]
	if !ok {
		return nil, errors.New("collection not found")
	}
	for _, pt := range in.GetPoints() {
		col[pt.GetId().GetUuid()] = pt
	}
	return &pb.PointsOperationResponse{}, nil
}

func (p *fakePoints) Search(
	_ context.Context, in *pb.SearchPoints, _ ...grpc.CallOption,
) (*pb.SearchResponse, error) {
	p.q.lastSearch = in
	if p.q.searchErr != nil {
		return nil, p.q.searchErr
	}
	col, ok := p.q.collections[in.GetCollectionName()]
	if !ok {
		return nil, errors.New("collection not found")
	}
	resp := &pb.SearchResponse{}
	for _, pt := range col {
		score := vector.CosineSimilarity(in.GetVector(), pt.GetVectors().GetVector().GetData())
		resp.Result = append(resp.Result, &pb.ScoredPoint{
			Id:      pt.GetId(),
			Payload: pt.GetPayload(),
			Score:   float32(score),
		})
	}
	sort.Slice(resp.Result, func(i, j int) bool { return resp.Result[i].Score > resp.Result[j].Score })
	if uint64(len(resp.Result)) > in.GetLimit() {
		resp.Result = resp.Result[:in.GetLimit()]
	}
	return resp, nil
}

func (p *fakePoints) Scroll(
	_ context.Context, in *pb.ScrollPoints, _ ...grpc.CallOption,
) (*pb.ScrollResponse, error) {
	col, ok := p.q.collections[in.GetCollectionName()]
	if !ok {
		return nil, errors.New("collection not found")
	}
	field := in.GetFilter().GetMust()[0].GetField()
	resp := &pb.ScrollResponse{}
	for _, pt := range col {
		if pt.GetPayload()[field.GetKey()].GetStringValue() == field.GetMatch().GetKeyword() {
			resp.Result = append(resp.Result, &pb.RetrievedPoint{Id: pt.GetId(), Payload: pt.GetPayload()})
		}
	}
	return resp, nil
}

func (p *fakePoints) Get(
	_ context.Context, in *pb.GetPoints, _ ...grpc.CallOption,
) (*pb.GetResponse, error) {
	col, ok := p.q.collections[in.GetCollectionName()]
	if !ok {
		return nil, errors.New("collection not found")
	}
	resp := &pb.GetResponse{}
	for _, id := range in.GetIds() {
		if pt, ok := col[id.GetUuid()]; ok {
			resp.Result = append(resp.Result, &pb.RetrievedPoint{Id: pt.GetId(), Payload: pt.GetPayload()})
		}
	}
	return resp, nil
}
