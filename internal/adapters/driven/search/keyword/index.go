// Package keyword provides a full-text section index built on bleve.
//
// The index lives in its own directory beside the vector store and is
// rebuilt from scratch on every ingestion. A rebuild writes a fresh index
// into a sibling directory and swaps it in once complete.
package keyword

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.KeywordIndex = (*Index)(nil)

// DefaultLimit is used when Search is called without a positive limit.
const DefaultLimit = 10

// batchSize bounds the number of documents per bleve batch.
const batchSize = 500

// document is the indexed form of a section.
type document struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
	Spec    string `json:"spec"`
}

// Index is a bleve-backed implementation of driven.KeywordIndex.
type Index struct {
	mu    sync.RWMutex
	dir   string
	index bleve.Index
}

// Open opens the index in dir if one exists. A missing index is not an
// error; searches return nothing until the first Rebuild.
func Open(dir string) (*Index, error) {
	idx := &Index{dir: dir}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return idx, nil
	}

	index, err := bleve.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open bleve index: %w", err)
	}
	idx.index = index
	return idx, nil
}

// Rebuild replaces the index contents with sections.
func (i *Index) Rebuild(ctx context.Context, sections []domain.Section) error {
	tmp := i.dir + ".new"
	if err := os.RemoveAll(tmp); err != nil {
		return fmt.Errorf("reset keyword index dir: %w", err)
	}

	fresh, err := bleve.New(tmp, buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create bleve index: %w", err)
	}

	batch := fresh.NewBatch()
	for _, sec := range sections {
		if err := ctx.Err(); err != nil {
			fresh.Close()
			return err
		}
		doc := document{Title: sec.Title, Content: sec.Content, URL: sec.URL, Spec: string(sec.Spec)}
		if err := batch.Index(sec.ID, doc); err != nil {
			fresh.Close()
			return fmt.Errorf("index section %s: %w", sec.ID, err)
		}
		if batch.Size() >= batchSize {
			if err := fresh.Batch(batch); err != nil {
				fresh.Close()
				return fmt.Errorf("write batch: %w", err)
			}
			batch.Reset()
		}
	}
	if err := fresh.Batch(batch); err != nil {
		fresh.Close()
		return fmt.Errorf("write batch: %w", err)
	}
	if err := fresh.Close(); err != nil {
		return fmt.Errorf("close new index: %w", err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.index != nil {
		i.index.Close()
		i.index = nil
	}
	if err := os.RemoveAll(i.dir); err != nil {
		return fmt.Errorf("remove old keyword index: %w", err)
	}
	if err := os.Rename(tmp, i.dir); err != nil {
		return fmt.Errorf("swap keyword index: %w", err)
	}

	index, err := bleve.Open(i.dir)
	if err != nil {
		return fmt.Errorf("open bleve index: %w", err)
	}
	i.index = index
	return nil
}

// Search matches query against titles and contents, titles boosted.
func (i *Index) Search(_ context.Context, query string, limit int) ([]driven.KeywordHit, error) {
	if strings.TrimSpace(query) == "" {
		return []driven.KeywordHit{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.index == nil {
		return []driven.KeywordHit{}, nil
	}

	contentQuery := bleve.NewMatchQuery(query)
	contentQuery.SetField("content")
	contentQuery.SetBoost(1.0)
	titleQuery := bleve.NewMatchQuery(query)
	titleQuery.SetField("title")
	titleQuery.SetBoost(2.0)
	disjunction := bleve.NewDisjunctionQuery([]blevequery.Query{contentQuery, titleQuery}...)

	req := bleve.NewSearchRequestOptions(disjunction, limit, 0, false)
	req.Fields = []string{"url"}

	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	hits := make([]driven.KeywordHit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		url, _ := hit.Fields["url"].(string)
		if url == "" {
			continue
		}
		hits = append(hits, driven.KeywordHit{URL: url, Score: hit.Score})
	}
	return hits, nil
}

// Close releases the underlying index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.index == nil {
		return nil
	}
	err := i.index.Close()
	i.index = nil
	return err
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = "en"
	indexMapping.DefaultField = "content"

	docMapping := bleve.NewDocumentMapping()

	contentField := bleve.NewTextFieldMapping()
	contentField.Store = false
	contentField.Index = true
	docMapping.AddFieldMappingsAt("content", contentField)

	titleField := bleve.NewTextFieldMapping()
	titleField.Store = true
	titleField.Index = true
	docMapping.AddFieldMappingsAt("title", titleField)

	urlField := bleve.NewTextFieldMapping()
	urlField.Store = true
	urlField.Index = false
	docMapping.AddFieldMappingsAt("url", urlField)

	specField := bleve.NewTextFieldMapping()
	specField.Store = true
	specField.Index = true
	specField.Analyzer = "keyword"
	docMapping.AddFieldMappingsAt("spec", specField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}
