// Package main Mock MCP - 模拟远程产物生成微服务
//
// 对所有 POST /{service}/{generate|calculate} 请求返回占位响应，
// 用于本地联调客户端的回退路径。
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
)

func main() {
	port := os.Getenv("MOCK_MCP_PORT")
	if port == "" {
		port = "9090"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /{service}/{action}", func(w http.ResponseWriter, r *http.Request) {
		service := r.PathValue("service")
		action := r.PathValue("action")
		log.Printf("mock response [service=%s action=%s]", service, action)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "mock",
			"service": service,
			"path":    r.URL.Path,
			"method":  r.Method,
		})
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	log.Printf("Mock MCP listening on :%s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
