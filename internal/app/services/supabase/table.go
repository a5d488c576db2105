package supabase

import (
	"clinic-portal-service/internal/app/services/supabase/rest"
	"clinic-portal-service/internal/pkg/constvars"
	"context"
)

// table is the typed CRUD surface shared by the resource repositories.
type table[T any] struct {
	client *rest.Client
	name   string
}

func newTable[T any](client *rest.Client, name string) table[T] {
	return table[T]{client: client, name: name}
}

func (t table[T]) list(ctx context.Context, q *rest.Query, asService bool) ([]T, int, error) {
	rows := make([]T, 0)
	resp, err := t.client.Do(ctx, rest.Request{
		Method:    constvars.MethodGet,
		Table:     t.name,
		Query:     q.Values(),
		Prefer:    constvars.PreferCountExact,
		AsService: asService,
	}, &rows)
	if err != nil {
		return nil, 0, err
	}
	total := resp.Count
	if total < 0 {
		total = len(rows)
	}
	return rows, total, nil
}

func (t table[T]) findByID(ctx context.Context, id string) (*T, error) {
	row := new(T)
	_, err := t.client.Do(ctx, rest.Request{
		Method: constvars.MethodGet,
		Table:  t.name,
		Query:  rest.NewQuery().Eq("id", id).Values(),
		Single: true,
	}, row)
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (t table[T]) insert(ctx context.Context, body interface{}) (*T, error) {
	row := new(T)
	_, err := t.client.Do(ctx, rest.Request{
		Method: constvars.MethodPost,
		Table:  t.name,
		Body:   body,
		Prefer: constvars.PreferReturnRepresentation,
		Single: true,
	}, row)
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (t table[T]) update(ctx context.Context, q *rest.Query, patch map[string]interface{}) (*T, error) {
	row := new(T)
	_, err := t.client.Do(ctx, rest.Request{
		Method: constvars.MethodPatch,
		Table:  t.name,
		Query:  q.Values(),
		Body:   patch,
		Prefer: constvars.PreferReturnRepresentation,
		Single: true,
	}, row)
	if err != nil {
		return nil, err
	}
	return row, nil
}

// delete asks for the deleted row back so a filter matching nothing surfaces as a 404.
func (t table[T]) delete(ctx context.Context, q *rest.Query) error {
	_, err := t.client.Do(ctx, rest.Request{
		Method: constvars.MethodDelete,
		Table:  t.name,
		Query:  q.Values(),
		Prefer: constvars.PreferReturnRepresentation,
		Single: true,
	}, nil)
	return err
}
