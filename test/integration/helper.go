//go:build integration

// Package integration 针对运行中的服务做端到端测试
//
// 运行方式:
//
//	go run ./cmd/api &
//	go test -tags integration ./test/integration/...
//
// BOOKCATALOG_TEST_URL 可以指定服务地址(默认 http://localhost:8080)
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Timeout HTTP请求超时时间
const Timeout = 10 * time.Second

// BaseURL API基础URL
var BaseURL = func() string {
	if url := os.Getenv("BOOKCATALOG_TEST_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}()

// Response 统一响应结构
type Response struct {
	Status  int             `json:"-"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// BookData 图书响应数据
type BookData struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// BookListData 图书列表响应数据
type BookListData struct {
	Items []BookData `json:"items"`
	Total int        `json:"total"`
}

// Do 发送请求并解析统一响应;204没有响应体
func Do(t *testing.T, method, path string, data interface{}) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, BaseURL+path, body)
	require.NoError(t, err, "创建HTTP请求失败")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	result := Response{Status: resp.StatusCode}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &result), "解析JSON响应失败: %s", string(raw))
	}
	return &result
}

// UniqueTitle 生成唯一书名,测试重复运行时不会冲突
func UniqueTitle(prefix string) string {
	return fmt.Sprintf("%s %d", prefix, time.Now().UnixNano())
}

// CreateTestBook 创建测试图书并返回
func CreateTestBook(t *testing.T, title, author string) BookData {
	t.Helper()

	resp := Do(t, http.MethodPost, "/books", map[string]string{"title": title, "author": author})
	require.Equal(t, http.StatusCreated, resp.Status, "创建图书失败: %s", resp.Message)

	var b BookData
	require.NoError(t, json.Unmarshal(resp.Data, &b))
	return b
}

// BookPath 单本图书路径
func BookPath(id uint) string {
	return fmt.Sprintf("/books/%d", id)
}
