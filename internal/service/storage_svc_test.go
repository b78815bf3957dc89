package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// ==================== 资产网关测试 ====================

// flakyProvider 前 N 次调用失败的 mock 提供者
type flakyProvider struct {
	failures int
	calls    int
}

func (p *flakyProvider) do() error {
	p.calls++
	if p.calls <= p.failures {
		return errors.New("临时故障")
	}
	return nil
}

func (p *flakyProvider) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	if err := p.do(); err != nil {
		return "", err
	}
	return "https://assets/" + filename, nil
}

func (p *flakyProvider) Move(ctx context.Context, oldFilename, newFilename string) (string, error) {
	if err := p.do(); err != nil {
		return "", err
	}
	return "https://assets/" + newFilename, nil
}

func (p *flakyProvider) Delete(ctx context.Context, filename string) error {
	return p.do()
}

func TestAssetGateway_RetriesThenSucceeds(t *testing.T) {
	provider := &flakyProvider{failures: 2}
	gateway := NewAssetGateway(provider, 2)

	result := gateway.Upload(context.Background(), []byte("x"), "a.jpg", "image/jpeg")
	if !result.Success {
		t.Fatalf("两次重试内恢复应成功, got %+v", result)
	}
	if provider.calls != 3 {
		t.Errorf("调用次数 = %d, want 3", provider.calls)
	}
}

// 网关耗尽重试后只返回失败结果，不抛错误
func TestAssetGateway_ExhaustedRetriesReturnFailure(t *testing.T) {
	provider := &flakyProvider{failures: 100}
	gateway := NewAssetGateway(provider, 1)
	ctx := context.Background()

	if result := gateway.Move(ctx, "a.jpg", "b.jpg"); result.Success || result.Error == "" {
		t.Errorf("Move 结果 = %+v", result)
	}
	if result := gateway.Delete(ctx, "a.jpg"); result.Success || result.Error == "" {
		t.Errorf("Delete 结果 = %+v", result)
	}
}

// ==================== WebDAV 测试 ====================

func TestWebDAVStorage(t *testing.T) {
	var lastMethod, lastPath, lastDestination string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastMethod = r.Method
		lastPath = r.URL.Path
		lastDestination = r.Header.Get("Destination")
		switch r.Method {
		case http.MethodPut:
			w.WriteHeader(http.StatusCreated)
		case "MOVE":
			w.WriteHeader(http.StatusCreated)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer server.Close()

	storage := NewWebDAVStorage(&StorageConfig{BaseURL: server.URL + "/pictures/"})
	ctx := context.Background()

	url, err := storage.Upload(ctx, []byte("jpg-bytes"), "pn_100_1.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if url != server.URL+"/pictures/pn_100_1.jpg" {
		t.Errorf("上传URL = %q", url)
	}
	if lastMethod != http.MethodPut || lastPath != "/pictures/pn_100_1.jpg" {
		t.Errorf("请求 = %s %s", lastMethod, lastPath)
	}

	newURL, err := storage.Move(ctx, "pn_100_1.jpg", "pn_200_1.jpg")
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if lastMethod != "MOVE" {
		t.Errorf("Move 方法 = %q", lastMethod)
	}
	if lastDestination != server.URL+"/pictures/pn_200_1.jpg" {
		t.Errorf("Destination 头 = %q", lastDestination)
	}
	if newURL != server.URL+"/pictures/pn_200_1.jpg" {
		t.Errorf("新URL = %q", newURL)
	}

	if err := storage.Delete(ctx, "pn_200_1.jpg"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if lastMethod != http.MethodDelete {
		t.Errorf("Delete 方法 = %q", lastMethod)
	}
}

// 404 视为已删除，不是错误
func TestWebDAVStorage_DeleteMissingIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	storage := NewWebDAVStorage(&StorageConfig{BaseURL: server.URL})
	if err := storage.Delete(context.Background(), "gone.jpg"); err != nil {
		t.Errorf("404 应视为成功, got %v", err)
	}
}

func TestWebDAVStorage_UploadServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	storage := NewWebDAVStorage(&StorageConfig{BaseURL: server.URL})
	if _, err := storage.Upload(context.Background(), []byte("x"), "a.jpg", "image/jpeg"); err == nil {
		t.Error("5xx 应返回错误")
	}
}

// ==================== 本地存储测试 ====================

func TestLocalStorage(t *testing.T) {
	dir := t.TempDir()
	storage := NewLocalStorage(&StorageConfig{LocalDir: dir})
	ctx := context.Background()

	if _, err := storage.Upload(ctx, []byte("data"), "a.jpg", "image/jpeg"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if _, err := storage.Move(ctx, "a.jpg", "b.jpg"); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "b.jpg")); err != nil {
		t.Errorf("改名后文件应存在: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.jpg")); !os.IsNotExist(err) {
		t.Error("旧文件应已不存在")
	}
	if err := storage.Delete(ctx, "b.jpg"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	// 重复删除不报错
	if err := storage.Delete(ctx, "b.jpg"); err != nil {
		t.Errorf("删除不存在的文件应静默成功, got %v", err)
	}
}

// ==================== 工厂测试 ====================

func TestNewStorageProvider_UnknownProvider(t *testing.T) {
	if _, err := NewStorageProvider(&StorageConfig{Provider: "ftp"}); err == nil {
		t.Error("未知提供者应返回错误")
	}
}
