package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/rdebiasec/gaby-website-admin/internal/models"
)

// Reporter 数据集写入器
type Reporter struct {
	outputPath string
}

// NewReporter 创建数据集写入器
func NewReporter(outputPath string) *Reporter {
	return &Reporter{outputPath: outputPath}
}

// WriteDataset 把数据集序列化为JSON并写入输出路径
// 必要时创建父目录
func (r *Reporter) WriteDataset(dataset *models.Dataset) error {
	dir := filepath.Dir(r.outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败 [%s]: %w", dir, err)
	}

	data, err := dataset.ToJSON()
	if err != nil {
		return fmt.Errorf("序列化数据集失败: %w", err)
	}

	if err := os.WriteFile(r.outputPath, data, 0644); err != nil {
		return fmt.Errorf("写入数据集失败 [%s]: %w", r.outputPath, err)
	}

	Infof("✅ 数据集已写入: %s (%d 条FAQ)", r.outputPath, len(dataset.Faqs))
	return nil
}

// NewProgressBar 创建进度条
func NewProgressBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
