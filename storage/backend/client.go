// Package backend 是外部物流 REST 后端的客户端。
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"du-console/logic/query"
	"du-console/types"
)

// APIError 携带后端返回的 HTTP 状态和 detail/message
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return e.Message
}

// Photo 为更新时附带的照片
type Photo struct {
	Name string
	Body io.Reader
}

type Client struct {
	base *url.URL
	http *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api base %q must be absolute", baseURL)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{base: u, http: &http.Client{Timeout: timeout}}, nil
}

// BaseURL 用于把相对照片地址解析为绝对地址
func (c *Client) BaseURL() *url.URL { return c.base }

// Resolve 把相对路径解析到 API base 下；已是绝对地址或为空时原样返回
func (c *Client) Resolve(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.base.ResolveReference(u).String()
}

func (c *Client) endpoint(path string, params url.Values) string {
	u := c.base.ResolveReference(&url.URL{Path: strings.TrimLeft(path, "/")})
	if params != nil {
		u.RawQuery = params.Encode()
	}
	return u.String()
}

// FetchPage 执行一次编译好的查询
func (c *Client) FetchPage(ctx context.Context, q query.Query) (*types.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(q.Path, q.Params), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	var body any
	if err := c.do(req, &body); err != nil {
		return nil, err
	}
	page := normalizePage(body)
	return &page, nil
}

// Update 以 multipart/form-data PUT 更新一条记录
func (c *Client) Update(ctx context.Context, pathTmpl, id string, in types.UpdateRequest, photo *Photo) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := []struct{ k, v string }{
		{"status", in.Status},
		{"status_delivery", in.StatusDelivery},
		{"remark", in.Remark},
		{"updated_by", in.UpdatedBy},
	}
	for _, f := range fields {
		if f.v == "" {
			continue
		}
		if err := mw.WriteField(f.k, f.v); err != nil {
			return err
		}
	}
	if photo != nil && photo.Body != nil {
		fw, err := mw.CreateFormFile("photo", photo.Name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(fw, photo.Body); err != nil {
			return fmt.Errorf("copy photo: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint(expandID(pathTmpl, id), nil), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, nil)
}

// Delete 按 id 或单号删除
func (c *Client) Delete(ctx context.Context, pathTmpl, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.endpoint(expandID(pathTmpl, id), nil), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf(">>> [Backend] %s %s failed: %v", req.Method, req.URL.Path, err)
		return err
	}
	defer resp.Body.Close()
	log.Printf(">>> [Backend] %s %s -> %d (%v)", req.Method, req.URL.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// decodeError 优先取 body 中的 detail，其次 message，最后用状态码
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var body map[string]any
	if json.Unmarshal(data, &body) == nil {
		apiErr.Message = detailMessage(body["detail"])
		if apiErr.Message == "" {
			apiErr.Message = detailMessage(body["message"])
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return apiErr
}

// detail 可能是字符串，也可能是校验错误列表 [{"msg": ...}]
func detailMessage(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []any:
		var msgs []string
		for _, it := range x {
			if m, ok := it.(map[string]any); ok {
				if s, ok := m["msg"].(string); ok {
					msgs = append(msgs, s)
				}
			} else if s, ok := it.(string); ok {
				msgs = append(msgs, s)
			}
		}
		return strings.Join(msgs, "; ")
	case map[string]any:
		return detailMessage(x["msg"])
	}
	return ""
}

// expandID 返回未转义的路径，由 url.URL 负责编码
func expandID(tmpl, id string) string {
	if strings.Contains(tmpl, "{id}") {
		return strings.ReplaceAll(tmpl, "{id}", id)
	}
	return strings.TrimRight(tmpl, "/") + "/" + id
}
