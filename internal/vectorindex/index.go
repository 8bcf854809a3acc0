// Package vectorindex caches job-profile embedding vectors in Weaviate so the
// matcher does not re-embed every job for every candidate. A miss is not an
// error: the matcher falls back to embedding the job text directly.
package vectorindex

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const className = "JobProfile"

type Index struct {
	client *weaviate.Client
}

func New(client *weaviate.Client) *Index {
	return &Index{client: client}
}

// EnsureSchema creates the JobProfile class if it does not exist. Vectors are
// supplied by the pipeline, so the vectorizer is none.
func (i *Index) EnsureSchema(ctx context.Context) error {
	exists, err := i.client.Schema().ClassExistenceChecker().WithClassName(className).Do(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	class := &models.Class{
		Class:       className,
		Description: "Embedded job profile text for candidate matching",
		Vectorizer:  "none",
		Properties: []*models.Property{
			{Name: "jobId", DataType: []string{"string"}},
			{Name: "text", DataType: []string{"text"}},
		},
	}
	return i.client.Schema().ClassCreator().WithClass(class).Do(ctx)
}

// Put replaces the cached vector for jobId. Replacing rather than appending
// keeps re-summarized jobs from matching against stale vectors.
func (i *Index) Put(ctx context.Context, jobID, text string, vector []float32) error {
	if err := i.delete(ctx, jobID); err != nil {
		return fmt.Errorf("replace vector for %s: %w", jobID, err)
	}

	_, err := i.client.Data().Creator().
		WithClassName(className).
		WithProperties(map[string]interface{}{
			"jobId": jobID,
			"text":  text,
		}).
		WithVector(vector).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("store vector for %s: %w", jobID, err)
	}
	return nil
}

func (i *Index) delete(ctx context.Context, jobID string) error {
	_, err := i.client.Batch().ObjectsBatchDeleter().
		WithClassName(className).
		WithOutput("minimal").
		WithWhere(filters.Where().
			WithPath([]string{"jobId"}).
			WithOperator(filters.Equal).
			WithValueString(jobID)).
		Do(ctx)
	return err
}

// Get returns the cached vector for jobID, reporting found=false on a miss.
func (i *Index) Get(ctx context.Context, jobID string) ([]float32, bool, error) {
	fields := []graphql.Field{
		{Name: "jobId"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "vector"}}},
	}

	where := filters.Where().
		WithPath([]string{"jobId"}).
		WithOperator(filters.Equal).
		WithValueString(jobID)

	res, err := i.client.GraphQL().Get().
		WithClassName(className).
		WithWhere(where).
		WithLimit(1).
		WithFields(fields...).
		Do(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(res.Errors) > 0 {
		return nil, false, fmt.Errorf("graphql error: %v", res.Errors)
	}

	data, ok := res.Data["Get"].(map[string]interface{})
	if !ok {
		return nil, false, nil
	}
	objs, ok := data[className].([]interface{})
	if !ok || len(objs) == 0 {
		return nil, false, nil
	}
	props, ok := objs[0].(map[string]interface{})
	if !ok {
		return nil, false, nil
	}
	additional, ok := props["_additional"].(map[string]interface{})
	if !ok {
		return nil, false, nil
	}
	raw, ok := additional["vector"].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, false, nil
	}

	vector := make([]float32, 0, len(raw))
	for _, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return nil, false, fmt.Errorf("unexpected vector element type %T", v)
		}
		vector = append(vector, float32(f))
	}
	return vector, true, nil
}
