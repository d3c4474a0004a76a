package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/travian22/aksa-2/config"
)

var (
	ErrUnsupportedImage = errors.New("不支持的图片格式")
	ErrImageDimensions  = errors.New("图片像素尺寸超出上限")
	ErrInvalidPath      = errors.New("非法的存储路径")
)

// defaultMaxPixels 未配置 max_image_pixels 时的像素上限
const defaultMaxPixels = 25_000_000

// 允许上传的图片格式（image.DecodeConfig 返回的格式名）
var allowedFormats = map[string]imaging.Format{
	"jpeg": imaging.JPEG,
	"png":  imaging.PNG,
	"gif":  imaging.GIF,
}

var formatExt = map[imaging.Format]string{
	imaging.JPEG: ".jpg",
	imaging.PNG:  ".png",
	imaging.GIF:  ".gif",
}

// StoredFile 存储目录中的文件
type StoredFile struct {
	URL     string
	ModTime time.Time
}

// Local 本地磁盘文件存储
// 文件落在 Root 下，对外地址为 PublicPrefix + "/" + 相对路径
type Local struct {
	root         string
	publicPrefix string
	maxImageSize int
	maxPixels    int
	logger       *zap.Logger
}

// NewLocal 创建本地存储并确保根目录存在
func NewLocal(cfg *config.StorageConfig, logger *zap.Logger) (*Local, error) {
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("创建存储目录失败: %w", err)
	}
	maxPixels := cfg.MaxImagePixels
	if maxPixels <= 0 {
		maxPixels = defaultMaxPixels
	}
	return &Local{
		root:         cfg.Root,
		publicPrefix: "/" + strings.Trim(cfg.PublicPrefix, "/"),
		maxImageSize: cfg.MaxImageSize,
		maxPixels:    maxPixels,
		logger:       logger,
	}, nil
}

// Root 存储根目录
func (s *Local) Root() string { return s.root }

// PublicPrefix 对外访问前缀，如 /storage
func (s *Local) PublicPrefix() string { return s.publicPrefix }

// SaveImage 校验并重新编码上传的图片，写入 dir 目录，返回对外地址
// 超过 maxImageSize 的图片按比例缩小；仅接受 jpeg/png/gif。
// 声明的宽×高超过 maxPixels 时在解码前拒绝，不为其分配像素缓冲。
func (s *Local) SaveImage(ctx context.Context, r io.Reader, dir string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("读取上传文件失败: %w", err)
	}

	cfg, formatName, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrUnsupportedImage
	}
	format, ok := allowedFormats[formatName]
	if !ok {
		return "", ErrUnsupportedImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > s.maxPixels/cfg.Height {
		return "", ErrImageDimensions
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", ErrUnsupportedImage
	}
	if s.maxImageSize > 0 {
		b := img.Bounds()
		if b.Dx() > s.maxImageSize || b.Dy() > s.maxImageSize {
			img = imaging.Fit(img, s.maxImageSize, s.maxImageSize, imaging.Lanczos)
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel := path.Join(strings.Trim(dir, "/"), uuid.New().String()+formatExt[format])
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("创建目录失败: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("创建文件失败: %w", err)
	}
	if err := imaging.Encode(f, img, format); err != nil {
		f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("写入图片失败: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("写入图片失败: %w", err)
	}

	return s.publicPrefix + "/" + rel, nil
}

// Delete 按对外地址删除文件，文件不存在视为成功
func (s *Local) Delete(ctx context.Context, url string) error {
	full, err := s.resolve(url)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("待删除文件不存在", zap.String("url", url))
			return nil
		}
		return fmt.Errorf("删除文件失败: %w", err)
	}
	return nil
}

// List 列出 dir 目录下的全部文件（不递归）
func (s *Local) List(ctx context.Context, dir string) ([]StoredFile, error) {
	rel := strings.Trim(dir, "/")
	entries, err := os.ReadDir(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取存储目录失败: %w", err)
	}

	files := make([]StoredFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, StoredFile{
			URL:     s.publicPrefix + "/" + path.Join(rel, e.Name()),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

// resolve 将对外地址映射为磁盘路径，拒绝越出根目录的路径
func (s *Local) resolve(url string) (string, error) {
	rel, ok := strings.CutPrefix(url, s.publicPrefix+"/")
	if !ok || rel == "" {
		return "", ErrInvalidPath
	}
	clean := path.Clean("/" + rel)
	if clean == "/" || strings.Contains(rel, "..") {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
