package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/bytedance/sonic"
)

const (
	tablePartition = "lanes"
	// A string property holds at most 64KiB, i.e. 32K UTF-16 code units.
	tableChunkUnits = 30000
)

// TableBackend stores each key as one Azure Table entity. Values larger than
// a single string property are split across Value0..ValueN.
type TableBackend struct {
	client *aztables.Client
}

func NewTableBackend(client *aztables.Client) *TableBackend {
	return &TableBackend{client: client}
}

// NewTableBackendFromConnectionString creates the table if needed.
func NewTableBackendFromConnectionString(ctx context.Context, connStr, table string) (*TableBackend, error) {
	opts := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    30 * time.Second,
				RetryDelay:    time.Second,
				MaxRetryDelay: 10 * time.Second,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &opts)
	if err != nil {
		return nil, fmt.Errorf("creating table service client: %w", err)
	}
	client := svc.NewClient(table)
	if _, err := client.CreateTable(ctx, nil); err != nil {
		var respErr *azcore.ResponseError
		if !(errors.As(err, &respErr) && respErr.ErrorCode == string(aztables.TableAlreadyExists)) {
			return nil, fmt.Errorf("creating table %q: %w", table, err)
		}
	}
	return NewTableBackend(client), nil
}

func (t *TableBackend) Name() string { return "azure" }

func (t *TableBackend) Close() error { return nil }

func (t *TableBackend) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := t.client.GetEntity(ctx, tablePartition, key, nil)
	if err != nil {
		if isTableNotFound(err) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("table get %q: %w", key, err)
	}

	var props map[string]any
	if err := sonic.ConfigStd.Unmarshal(resp.Value, &props); err != nil {
		return nil, fmt.Errorf("decoding entity %q: %w", key, err)
	}
	return joinChunks(props)
}

func (t *TableBackend) Set(ctx context.Context, key string, value []byte) error {
	entity := map[string]any{
		"PartitionKey": tablePartition,
		"RowKey":       key,
	}
	chunks := splitChunks(string(value), tableChunkUnits)
	entity["Chunks"] = len(chunks)
	for i, c := range chunks {
		entity[fmt.Sprintf("Value%d", i)] = c
	}

	payload, err := sonic.ConfigStd.Marshal(entity)
	if err != nil {
		return fmt.Errorf("encoding entity %q: %w", key, err)
	}
	_, err = t.client.UpsertEntity(ctx, payload, &aztables.UpsertEntityOptions{UpdateMode: aztables.UpdateModeReplace})
	if err != nil {
		return fmt.Errorf("table upsert %q: %w", key, err)
	}
	return nil
}

func (t *TableBackend) Delete(ctx context.Context, key string) error {
	_, err := t.client.DeleteEntity(ctx, tablePartition, key, nil)
	if err != nil && !isTableNotFound(err) {
		return fmt.Errorf("table delete %q: %w", key, err)
	}
	return nil
}

func isTableNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

// splitChunks cuts s into pieces of at most n UTF-16 code units, never
// splitting a rune. An empty s yields one empty chunk so the entity always
// carries Value0.
func splitChunks(s string, n int) []string {
	if s == "" {
		return []string{""}
	}
	var chunks []string
	start, units := 0, 0
	for i, r := range s {
		w := utf16.RuneLen(r)
		if w < 0 {
			w = 1
		}
		if units+w > n && i > start {
			chunks = append(chunks, s[start:i])
			start, units = i, 0
		}
		units += w
	}
	return append(chunks, s[start:])
}

func joinChunks(props map[string]any) ([]byte, error) {
	count, ok := props["Chunks"].(float64)
	if !ok {
		return nil, fmt.Errorf("entity has no chunk count")
	}
	var b strings.Builder
	for i := 0; i < int(count); i++ {
		part, ok := props[fmt.Sprintf("Value%d", i)].(string)
		if !ok {
			return nil, fmt.Errorf("entity missing chunk %d of %d", i, int(count))
		}
		b.WriteString(part)
	}
	return []byte(b.String()), nil
}
