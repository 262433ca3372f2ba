package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnsupportedImage is returned for files other than jpg/jpeg/png.
var ErrUnsupportedImage = errors.New("unsupported file type!")

// AssetStore is the external image host. Posts keep the URL for display
// and the public id to delete the asset together with the post.
type AssetStore interface {
	Upload(ctx context.Context, file io.Reader, filename string) (*ImageUploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

// ImgurResponse Imgur API 响应结构
// Data is an image object on upload and a bare boolean on delete.
type ImgurResponse struct {
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
	Status  int             `json:"status"`
}

type ImgurImage struct {
	ID         string `json:"id"`
	Link       string `json:"link"`
	DeleteHash string `json:"deletehash"`
	Type       string `json:"type"`
	Error      string `json:"error"`
}

// ImageUploadResult 上传结果
type ImageUploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"` // Imgur deletehash
}

// ImgurStore uploads anonymously with a Client-ID; the deletehash doubles as public id.
type ImgurStore struct {
	clientID string
	baseURL  string
	client   *http.Client
}

func NewImgurStore(clientID, baseURL string) *ImgurStore {
	return &ImgurStore{
		clientID: clientID,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// AllowedImage reports whether the file extension is accepted for upload.
func AllowedImage(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func (s *ImgurStore) Upload(ctx context.Context, file io.Reader, filename string) (*ImageUploadResult, error) {
	if s.clientID == "" {
		return nil, fmt.Errorf("IMGUR_CLIENT_ID 未配置")
	}
	if !AllowedImage(filename) {
		return nil, ErrUnsupportedImage
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)
	if err := writer.WriteField("image", base64.StdEncoding.EncodeToString(fileBytes)); err != nil {
		return nil, fmt.Errorf("写入请求体失败: %w", err)
	}
	if err := writer.WriteField("type", "base64"); err != nil {
		return nil, fmt.Errorf("写入请求体失败: %w", err)
	}
	if err := writer.WriteField("name", filepath.Base(filename)); err != nil {
		return nil, fmt.Errorf("写入请求体失败: %w", err)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/image", &requestBody)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	imgurResp, err := s.do(req)
	if err != nil {
		return nil, fmt.Errorf("上传请求失败: %w", err)
	}

	var image ImgurImage
	if err := json.Unmarshal(imgurResp.Data, &image); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}
	return &ImageUploadResult{
		URL:      image.Link,
		PublicID: image.DeleteHash,
	}, nil
}

func (s *ImgurStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.baseURL+"/image/"+publicID, nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	if _, err := s.do(req); err != nil {
		return fmt.Errorf("删除图片失败: %w", err)
	}
	return nil
}

func (s *ImgurStore) do(req *http.Request) (*ImgurResponse, error) {
	req.Header.Set("Authorization", "Client-ID "+s.clientID)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	var imgurResp ImgurResponse
	if err := json.Unmarshal(body, &imgurResp); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}
	if !imgurResp.Success {
		var image ImgurImage
		if json.Unmarshal(imgurResp.Data, &image) == nil && image.Error != "" {
			return nil, fmt.Errorf("imgur: %s (status %d)", image.Error, imgurResp.Status)
		}
		return nil, fmt.Errorf("imgur: status %d", imgurResp.Status)
	}
	return &imgurResp, nil
}
