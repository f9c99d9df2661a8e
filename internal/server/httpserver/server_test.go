package httpserver

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"math/big"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yndnr/tokclaim-go/internal/infra/tlsroots"
	"github.com/yndnr/tokclaim-go/internal/server/config"
)

func TestNew(t *testing.T) {
	cfg := config.Default().Server.HTTP
	s := New(cfg, http.NotFoundHandler())

	if s.Addr() != cfg.Addr {
		t.Errorf("Addr() = %q, want %q", s.Addr(), cfg.Addr)
	}
	if s.httpServer.ReadTimeout != cfg.ReadTimeout || s.httpServer.IdleTimeout != cfg.IdleTimeout {
		t.Error("timeouts not applied")
	}
	if s.TLS() {
		t.Error("TLS() should be false without cert and key")
	}

	cfg.TLSCertFile, cfg.TLSKeyFile = "cert.pem", "key.pem"
	if !New(cfg, http.NotFoundHandler()).TLS() {
		t.Error("TLS() should be true with cert and key")
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})

	cfg := config.Default().Server.HTTP
	cfg.Addr = "127.0.0.1:0"
	s := New(cfg, handler)
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve()
	}()

	resp, err := http.Get("http://" + s.Addr() + "/")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("Serve() returned %v, want nil after shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("timeout waiting for Serve to return")
	}
}

func TestServer_ListenError(t *testing.T) {
	cfg := config.Default().Server.HTTP
	cfg.Addr = "127.0.0.1:0"
	first := New(cfg, http.NotFoundHandler())
	if err := first.Listen(); err != nil {
		t.Fatal(err)
	}
	defer first.listener.Close()

	cfg.Addr = first.Addr()
	if err := New(cfg, http.NotFoundHandler()).Listen(); err == nil {
		t.Error("Listen() on a bound address should fail")
	}
}

// writeSelfSignedCert writes a self-signed certificate valid for 127.0.0.1.
func writeSelfSignedCert(t *testing.T, certFile, keyFile string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "tokclaim-test"},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestServer_ServeTLSWithCertificateSource(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := filepath.Join(dir, "tls.crt"), filepath.Join(dir, "tls.key")
	writeSelfSignedCert(t, certFile, keyFile)

	reloader, err := tlsroots.NewCertReloader(certFile, keyFile, nil)
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Default().Server.HTTP
	cfg.Addr = "127.0.0.1:0"
	cfg.TLSCertFile, cfg.TLSKeyFile = certFile, keyFile
	s := New(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "secure")
	}))
	s.SetCertificateSource(reloader.GetCertificate)
	if err := s.Listen(); err != nil {
		t.Fatal(err)
	}
	go s.Serve()
	defer s.Shutdown(context.Background())

	clientCfg, err := tlsroots.ClientConfig(certFile)
	if err != nil {
		t.Fatal(err)
	}
	client := &http.Client{Transport: &http.Transport{TLSClientConfig: clientCfg}}
	resp, err := client.Get("https://" + s.Addr() + "/")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "secure" {
		t.Errorf("body = %q, want secure", body)
	}
}
