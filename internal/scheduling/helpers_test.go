package scheduling

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
)

type getCall struct {
	Path  string
	Query url.Values
}

type postCall struct {
	Path string
	Body any
}

// fakeAPI records calls and answers through the configured funcs.
type fakeAPI struct {
	mu     sync.Mutex
	gets   []getCall
	posts  []postCall
	getFn  func(ctx context.Context, path string, query url.Values, out any) error
	postFn func(ctx context.Context, path string, body any, out any) error
}

func (f *fakeAPI) Get(ctx context.Context, path string, query url.Values, out any) error {
	f.mu.Lock()
	f.gets = append(f.gets, getCall{Path: path, Query: query})
	fn := f.getFn
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, path, query, out)
}

func (f *fakeAPI) Post(ctx context.Context, path string, body any, out any) error {
	f.mu.Lock()
	f.posts = append(f.posts, postCall{Path: path, Body: body})
	fn := f.postFn
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, path, body, out)
}

func (f *fakeAPI) getCalls() []getCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]getCall(nil), f.gets...)
}

func (f *fakeAPI) postCalls() []postCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]postCall(nil), f.posts...)
}

// respond round-trips v through JSON into out, like the real transport.
func respond(out any, v any) error {
	if out == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func providerFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
