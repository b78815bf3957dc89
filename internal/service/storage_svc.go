package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"component_catalog_v1_202609/pkg/logger"
)

// ==================== 接口定义 ====================

// StorageProvider 存储提供者接口
type StorageProvider interface {
	// Upload 上传文件，返回公开访问URL
	Upload(ctx context.Context, data []byte, filename string, contentType string) (url string, err error)

	// Move 改名/移动文件，返回新URL
	Move(ctx context.Context, oldFilename, newFilename string) (newURL string, err error)

	// Delete 删除文件
	Delete(ctx context.Context, filename string) error
}

// ==================== 配置 ====================

type StorageConfig struct {
	Provider string // "webdav" | "s3" | "local"

	// WebDAV
	BaseURL  string // 如 https://assets.internal/pictures
	Username string
	Password string

	// S3
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	BasePath  string

	// Local
	LocalDir string

	// 网关内部重试次数（调用方不重试）
	RetryCount int
}

// ==================== 工厂方法 ====================

func NewStorageProvider(cfg *StorageConfig) (StorageProvider, error) {
	switch cfg.Provider {
	case "webdav":
		return NewWebDAVStorage(cfg), nil
	case "s3":
		return NewS3Storage(cfg)
	case "local":
		return NewLocalStorage(cfg), nil
	default:
		return nil, fmt.Errorf("不支持的存储提供者: %s", cfg.Provider)
	}
}

// ==================== 资产网关 ====================

// 每个操作的结果：success=false 对调用方永远是非致命的，
// 失败只记录、不向外抛 error，目录库事务不受其影响

// UploadResult 上传结果
type UploadResult struct {
	Success bool
	URL     string
	Error   string
}

// MoveResult 改名结果
type MoveResult struct {
	Success bool
	NewURL  string
	Error   string
}

// DeleteFileResult 删除结果
type DeleteFileResult struct {
	Success bool
	Error   string
}

// AssetGateway 资产存储网关
// 包装 StorageProvider，把任何失败转成结果结构，绝不让错误越过边界
type AssetGateway struct {
	provider StorageProvider
	retries  int
}

// NewAssetGateway 创建资产网关
func NewAssetGateway(provider StorageProvider, retries int) *AssetGateway {
	if retries < 0 {
		retries = 0
	}
	return &AssetGateway{provider: provider, retries: retries}
}

func (g *AssetGateway) attempt(op func() error) error {
	var err error
	for i := 0; i <= g.retries; i++ {
		if err = op(); err == nil {
			return nil
		}
	}
	return err
}

// Upload 上传文件
func (g *AssetGateway) Upload(ctx context.Context, data []byte, filename, contentType string) UploadResult {
	var url string
	err := g.attempt(func() error {
		var e error
		url, e = g.provider.Upload(ctx, data, filename, contentType)
		return e
	})
	if err != nil {
		logger.Get().Warn("资产上传失败",
			zap.String("filename", filename), zap.Error(err))
		return UploadResult{Success: false, Error: err.Error()}
	}
	return UploadResult{Success: true, URL: url}
}

// Move 改名文件
func (g *AssetGateway) Move(ctx context.Context, oldFilename, newFilename string) MoveResult {
	var newURL string
	err := g.attempt(func() error {
		var e error
		newURL, e = g.provider.Move(ctx, oldFilename, newFilename)
		return e
	})
	if err != nil {
		logger.Get().Warn("资产改名失败",
			zap.String("old", oldFilename), zap.String("new", newFilename), zap.Error(err))
		return MoveResult{Success: false, Error: err.Error()}
	}
	return MoveResult{Success: true, NewURL: newURL}
}

// Delete 删除文件
func (g *AssetGateway) Delete(ctx context.Context, filename string) DeleteFileResult {
	err := g.attempt(func() error {
		return g.provider.Delete(ctx, filename)
	})
	if err != nil {
		logger.Get().Warn("资产删除失败",
			zap.String("filename", filename), zap.Error(err))
		return DeleteFileResult{Success: false, Error: err.Error()}
	}
	return DeleteFileResult{Success: true}
}

// ==================== WebDAV 实现 ====================

type WebDAVStorage struct {
	client  *resty.Client
	baseURL string
}

func NewWebDAVStorage(cfg *StorageConfig) *WebDAVStorage {
	client := resty.New().
		SetTimeout(30 * time.Second)
	if cfg.Username != "" {
		client.SetBasicAuth(cfg.Username, cfg.Password)
	}
	return &WebDAVStorage{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func (s *WebDAVStorage) fileURL(filename string) string {
	return s.baseURL + "/" + filename
}

func (s *WebDAVStorage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	if filename == "" {
		filename = uuid.New().String() + ".jpg"
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	url := s.fileURL(filename)
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Put(url)
	if err != nil {
		return "", fmt.Errorf("WebDAV 上传失败: %v", err)
	}
	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusNoContent && resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("WebDAV 上传异常 [%d]: %s", resp.StatusCode(), resp.String())
	}
	return url, nil
}

func (s *WebDAVStorage) Move(ctx context.Context, oldFilename, newFilename string) (string, error) {
	newURL := s.fileURL(newFilename)
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Destination", newURL).
		SetHeader("Overwrite", "T").
		Execute("MOVE", s.fileURL(oldFilename))
	if err != nil {
		return "", fmt.Errorf("WebDAV 改名失败: %v", err)
	}
	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusNoContent {
		return "", fmt.Errorf("WebDAV 改名异常 [%d]: %s", resp.StatusCode(), resp.String())
	}
	return newURL, nil
}

func (s *WebDAVStorage) Delete(ctx context.Context, filename string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		Delete(s.fileURL(filename))
	if err != nil {
		return fmt.Errorf("WebDAV 删除失败: %v", err)
	}
	// 404 视为已删除
	if resp.StatusCode() != http.StatusNoContent && resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusNotFound {
		return fmt.Errorf("WebDAV 删除异常 [%d]: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// ==================== S3 实现 ====================

type S3Storage struct {
	client   *s3.Client
	bucket   string
	region   string
	basePath string
}

func NewS3Storage(cfg *StorageConfig) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("加载AWS配置失败: %v", err)
	}

	return &S3Storage{
		client:   s3.NewFromConfig(awsCfg),
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		basePath: strings.Trim(cfg.BasePath, "/"),
	}, nil
}

func (s *S3Storage) key(filename string) string {
	if s.basePath != "" {
		return s.basePath + "/" + filename
	}
	return filename
}

func (s *S3Storage) publicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *S3Storage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	if filename == "" {
		filename = uuid.New().String() + ".jpg"
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	key := s.key(filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("上传S3失败: %v", err)
	}
	return s.publicURL(key), nil
}

// Move S3 没有原生改名，复制后删除
func (s *S3Storage) Move(ctx context.Context, oldFilename, newFilename string) (string, error) {
	oldKey := s.key(oldFilename)
	newKey := s.key(newFilename)

	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(s.bucket + "/" + oldKey),
		Key:        aws.String(newKey),
	})
	if err != nil {
		return "", fmt.Errorf("S3 复制失败: %v", err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(oldKey),
	})
	if err != nil {
		return "", fmt.Errorf("S3 删除旧对象失败: %v", err)
	}
	return s.publicURL(newKey), nil
}

func (s *S3Storage) Delete(ctx context.Context, filename string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(filename)),
	})
	return err
}

// ==================== 本地存储 (开发测试用) ====================

type LocalStorage struct {
	baseDir string
}

func NewLocalStorage(cfg *StorageConfig) *LocalStorage {
	dir := cfg.LocalDir
	if dir == "" {
		dir = "./uploads"
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		_ = os.MkdirAll(dir, 0755)
	}
	return &LocalStorage{baseDir: dir}
}

func (s *LocalStorage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	if filename == "" {
		filename = uuid.New().String() + ".jpg"
	}
	path := filepath.Join(s.baseDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("写入本地文件失败: %v", err)
	}
	return "file://" + path, nil
}

func (s *LocalStorage) Move(ctx context.Context, oldFilename, newFilename string) (string, error) {
	oldPath := filepath.Join(s.baseDir, oldFilename)
	newPath := filepath.Join(s.baseDir, newFilename)
	if err := os.Rename(oldPath, newPath); err != nil {
		return "", fmt.Errorf("本地改名失败: %v", err)
	}
	return "file://" + newPath, nil
}

func (s *LocalStorage) Delete(ctx context.Context, filename string) error {
	err := os.Remove(filepath.Join(s.baseDir, filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
