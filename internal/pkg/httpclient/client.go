package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Resolver 把协作方服务名解析为一个健康实例地址（由 Nacos 客户端实现）
type Resolver interface {
	DiscoverServiceInstance(serviceName string) (string, int, error)
}

// StatusError 表示协作方返回了非 2xx 状态码。
// 调用方据此区分业务性的 404 和基础设施性的 5xx。
type StatusError struct {
	Service string
	Code    int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("service %s returned status %d", e.Service, e.Code)
}

// Client 是可追踪、可注入的 HTTP 客户端。
// 连接池复用一个底层 http.Client；每次调用带独立的有界超时，
// 超时后按远端失败处理。
type Client struct {
	tracer     trace.Tracer
	resolver   Resolver
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient 创建一个客户端实例
func NewClient(tracer trace.Tracer, resolver Resolver, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		tracer:   tracer,
		resolver: resolver,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
		timeout: timeout,
	}
}

// DoJSON 向协作方发起一次 JSON 调用。
// serviceName 经 Resolver 解析成实例地址；body 非空时编码为请求体；
// out 非空时从 2xx 应答体解码。
func (c *Client) DoJSON(ctx context.Context, method, serviceName, path string, query url.Values, body, out any) error {
	spanName := fmt.Sprintf("call-%s", serviceName)
	ctx, span := c.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ip, port, err := c.resolver.DiscoverServiceInstance(serviceName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	downstreamURL := url.URL{
		Scheme: "http",
		Host:   fmt.Sprintf("%s:%d", ip, port),
		Path:   path,
	}
	if query != nil {
		downstreamURL.RawQuery = query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, downstreamURL.String(), reqBody)
	if err != nil {
		span.RecordError(err)
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	span.SetAttributes(
		attribute.String("http.url", downstreamURL.String()),
		attribute.String("http.method", method),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := &StatusError{Service: serviceName, Code: resp.StatusCode}
		span.RecordError(statusErr)
		span.SetStatus(codes.Error, statusErr.Error())
		return statusErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to decode response from %s: %w", serviceName, err)
		}
	}
	return nil
}
