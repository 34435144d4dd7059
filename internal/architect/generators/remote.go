package generators

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"arquitecto/internal/shared/model"
	"arquitecto/pkg/logging"
)

const (
	remoteTimeout    = 45 * time.Second
	remoteRetries    = 2
	remoteRetryDelay = 500 * time.Millisecond
	remoteMaxBody    = 4 << 20
)

// ErrSentinelResponse 远程服务返回哨兵形状，视为未真正生成
var ErrSentinelResponse = errors.New("generators: remote returned sentinel response")

// RemoteClient 远程生成微服务的 HTTP 客户端
type RemoteClient struct {
	baseURL string
	httpc   *http.Client
	logger  *logging.Logger
}

// NewRemoteClient 创建远程生成客户端，baseURL 为空代表远程路径禁用
func NewRemoteClient(baseURL string, logger *logging.Logger) *RemoteClient {
	return &RemoteClient{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: remoteTimeout},
		logger:  logger,
	}
}

// Enabled 是否配置了远程端点
func (c *RemoteClient) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// remoteRequest 发往远程生成服务的请求体
type remoteRequest struct {
	ProjectName  string   `json:"project_name"`
	ProjectType  string   `json:"project_type"`
	Services     []string `json:"services"`
	Region       string   `json:"region"`
	InstanceType string   `json:"instance_type,omitempty"`
	StorageGB    int      `json:"storage_gb,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
}

// remoteResponse 远程生成服务的响应体
type remoteResponse struct {
	Content   string `json:"content"`
	MediaType string `json:"media_type"`
	FileName  string `json:"file_name"`
}

// Generate 调用 POST {base}/{service}/{verb}，传输错误重试两次。
// 哨兵形状、非 2xx、超时或空内容都返回错误，由调用方回落本地。
func (c *RemoteClient) Generate(ctx context.Context, service, verb string, in Input) (remoteResponse, error) {
	body, err := json.Marshal(remoteRequest{
		ProjectName:  in.Draft.Name,
		ProjectType:  string(in.Draft.Type),
		Services:     in.Draft.Services,
		Region:       in.Draft.Region,
		InstanceType: in.Draft.InstanceType,
		StorageGB:    in.Draft.StorageGB,
		Requirements: in.Draft.Requirements,
	})
	if err != nil {
		return remoteResponse{}, err
	}

	url := fmt.Sprintf("%s/%s/%s", c.baseURL, service, verb)

	var lastErr error
	for attempt := 0; attempt <= remoteRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return remoteResponse{}, ctx.Err()
			case <-time.After(remoteRetryDelay):
			}
		}

		resp, err := c.doOnce(ctx, url, body)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		// 只有传输层错误才重试；哨兵和非 2xx 直接放弃
		if !isTransportError(err) {
			break
		}
	}
	return remoteResponse{}, lastErr
}

func (c *RemoteClient) doOnce(ctx context.Context, url string, body []byte) (remoteResponse, error) {
	reqCtx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return remoteResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return remoteResponse{}, fmt.Errorf("remote generator call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, remoteMaxBody))
	if err != nil {
		return remoteResponse{}, fmt.Errorf("remote generator read: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return remoteResponse{}, fmt.Errorf("remote generator returned status %d", resp.StatusCode)
	}

	if isSentinelBody(raw) {
		return remoteResponse{}, ErrSentinelResponse
	}

	var out remoteResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return remoteResponse{}, fmt.Errorf("remote generator decode: %w", err)
	}
	if out.Content == "" {
		return remoteResponse{}, errors.New("remote generator returned empty content")
	}
	return out, nil
}

// isSentinelBody 恰好是 {status, service, path, method} 四个键的响应
// 视为 mock 占位，不包含真实产物内容
func isSentinelBody(raw []byte) bool {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return false
	}
	if len(m) != 4 {
		return false
	}
	for _, k := range []string{"status", "service", "path", "method"} {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

// isTransportError 连接层错误（可重试），区别于协议层拒绝
func isTransportError(err error) bool {
	if errors.Is(err, ErrSentinelResponse) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var urlErr interface{ Timeout() bool }
	if errors.As(err, &urlErr) {
		return true
	}
	// http.Client.Do 的错误（连接拒绝、DNS 失败等）都包在 "remote generator call" 里
	return errors.Is(err, io.ErrUnexpectedEOF) || containsTransportMarker(err)
}

func containsTransportMarker(err error) bool {
	msg := err.Error()
	for _, marker := range []string{"remote generator call", "connection refused", "connection reset", "no such host"} {
		if bytes.Contains([]byte(msg), []byte(marker)) {
			return true
		}
	}
	return false
}

// remoteGenerator 先尝试远程再回落本地的生成器
type remoteGenerator struct {
	name     string
	service  string
	verb     string
	fileName string
	media    string
	client   *RemoteClient
	fallback localFunc
	logger   *logging.Logger
}

func (g *remoteGenerator) LogicalName() string { return g.name }

func (g *remoteGenerator) Generate(ctx context.Context, in Input) (model.Artifact, error) {
	if g.client.Enabled() {
		start := time.Now()
		resp, err := g.client.Generate(ctx, g.service, g.verb, in)
		if err == nil {
			g.logger.WithContext(ctx).GeneratorLog(g.name, string(model.SourceRemote), time.Since(start), nil)
			return g.remoteArtifact(resp), nil
		}
		g.logger.WithContext(ctx).GeneratorLog(g.name, string(model.SourceRemote), time.Since(start), err)
	}

	start := time.Now()
	art, err := g.fallback(in)
	g.logger.WithContext(ctx).GeneratorLog(g.name, string(model.SourceLocal), time.Since(start), err)
	return art, err
}

func (g *remoteGenerator) remoteArtifact(resp remoteResponse) model.Artifact {
	fileName := resp.FileName
	if fileName == "" {
		fileName = g.fileName
	}
	media := resp.MediaType
	if media == "" {
		media = g.media
	}
	return model.Artifact{
		LogicalName: g.name,
		FileName:    fileName,
		MediaType:   media,
		Bytes:       asciiBytes(resp.Content),
		Source:      model.SourceRemote,
	}
}
