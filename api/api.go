// Package api 承载对外 HTTP 接口的 OpenAPI 描述
package api

import _ "embed"

// OpenAPISpec 内嵌的 OpenAPI 3.0 文档，启动时加载用于请求校验
//
//go:embed openapi.yaml
var OpenAPISpec []byte
