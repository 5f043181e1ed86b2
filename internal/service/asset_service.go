package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/halcyonlabs/portfolio-api/internal/config"
)

// AssetService uploads project images to S3-compatible storage using AWS
// Signature V4.
type AssetService struct {
	bucket          string
	region          string
	accessKeyID     string
	secretAccessKey string
}

// NewAssetService creates a new asset service.
func NewAssetService(cfg *config.AssetConfig) (*AssetService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("asset config is nil")
	}
	return &AssetService{
		bucket:          cfg.Bucket,
		region:          cfg.Region,
		accessKeyID:     cfg.AccessKeyID,
		secretAccessKey: cfg.SecretAccessKey,
	}, nil
}

// UploadProjectImage uploads a project image and returns its public URL.
func (s *AssetService) UploadProjectImage(ctx context.Context, slug string, data []byte, contentType string) (string, error) {
	ext := "jpg"
	if parts := strings.Split(contentType, "/"); len(parts) == 2 && parts[1] != "" {
		ext = parts[1]
	}
	key := fmt.Sprintf("projects/%s/cover.%s", slug, ext)
	return s.uploadObject(ctx, key, data, contentType)
}

// uploadObject PUTs an object with a SigV4 authorization header.
func (s *AssetService) uploadObject(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s.accessKeyID == "" || s.secretAccessKey == "" {
		log.Warn().Str("key", key).Msg("asset storage credentials not configured - skipping upload")
		return s.ObjectURL(key), nil
	}

	url := s.ObjectURL(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	now := time.Now().UTC()
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")
	payloadHash := sha256Hex(data)

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Length", fmt.Sprintf("%d", len(data)))
	req.Header.Set("Host", s.bucketHost())
	req.Header.Set("X-Amz-Date", amzDate)
	req.Header.Set("X-Amz-Content-Sha256", payloadHash)

	req.Header.Set("Authorization", s.signRequest(req, payloadHash, amzDate, dateStamp))

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("asset upload failed")
		return "", fmt.Errorf("failed to upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		log.Error().
			Str("key", key).
			Int("status", resp.StatusCode).
			Str("response", string(body)).
			Msg("asset upload rejected")
		return "", fmt.Errorf("asset upload failed: %s", string(body))
	}

	log.Info().Str("key", key).Msg("asset uploaded")
	return s.ObjectURL(key), nil
}

// signRequest builds the AWS Signature V4 authorization header.
func (s *AssetService) signRequest(req *http.Request, payloadHash, amzDate, dateStamp string) string {
	service := "s3"

	canonicalURI := req.URL.Path
	if canonicalURI == "" {
		canonicalURI = "/"
	}

	signedHeaders := []string{"content-type", "host", "x-amz-content-sha256", "x-amz-date"}

	var canonicalHeaders strings.Builder
	for _, h := range signedHeaders {
		canonicalHeaders.WriteString(h)
		canonicalHeaders.WriteString(":")
		canonicalHeaders.WriteString(strings.TrimSpace(req.Header.Get(h)))
		canonicalHeaders.WriteString("\n")
	}
	signedHeadersStr := strings.Join(signedHeaders, ";")

	canonicalRequest := fmt.Sprintf("%s\n%s\n%s\n%s\n%s\n%s",
		req.Method,
		canonicalURI,
		"",
		canonicalHeaders.String(),
		signedHeadersStr,
		payloadHash,
	)

	algorithm := "AWS4-HMAC-SHA256"
	credentialScope := fmt.Sprintf("%s/%s/%s/aws4_request", dateStamp, s.region, service)
	stringToSign := fmt.Sprintf("%s\n%s\n%s\n%s",
		algorithm,
		amzDate,
		credentialScope,
		sha256Hex([]byte(canonicalRequest)),
	)

	kDate := hmacSHA256([]byte("AWS4"+s.secretAccessKey), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(s.region))
	kService := hmacSHA256(kRegion, []byte(service))
	kSigning := hmacSHA256(kService, []byte("aws4_request"))

	signature := hex.EncodeToString(hmacSHA256(kSigning, []byte(stringToSign)))

	return fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		algorithm,
		s.accessKeyID,
		credentialScope,
		signedHeadersStr,
		signature,
	)
}

func (s *AssetService) bucketHost() string {
	return fmt.Sprintf("%s.s3.%s.amazonaws.com", s.bucket, s.region)
}

// ObjectURL returns the public URL for an object key.
func (s *AssetService) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s/%s", s.bucketHost(), key)
}

func sha256Hex(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
