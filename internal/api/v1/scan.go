package v1

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/manumurali010/gst-sub002/internal/model"
	"github.com/manumurali010/gst-sub002/internal/parser"
	"github.com/manumurali010/gst-sub002/internal/service/analysis"
	"github.com/manumurali010/gst-sub002/internal/service/excel"
	"github.com/manumurali010/gst-sub002/internal/service/resolve"
)

// ScanResponse 扫描响应
type ScanResponse struct {
	FileHash string           `json:"fileHash"`
	Report   model.ScanReport `json:"report"`
}

// Scan 上传工作簿并跑全部分析点
// POST /api/scan
//
// 歧义请求不在这里阻塞：引擎以 Pending 结论挂起，
// 请求登记到待办列表，客户端回答后重新扫描即命中缓存
func (h *Handler) Scan(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	uploadedFile := files[0]

	tempDir := os.TempDir()
	tempFilePath := filepath.Join(tempDir, fmt.Sprintf("gstlens_scan_%d_%s", time.Now().Unix(), uploadedFile.Filename))
	if err := c.SaveUploadedFile(uploadedFile, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save uploaded file"})
		return
	}
	defer os.Remove(tempFilePath)

	fileHash, err := hashFile(tempFilePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash file"})
		return
	}

	wb, err := excel.OpenWorkbook(tempFilePath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open workbook"})
		return
	}
	defer wb.Close()

	input, err := buildInput(wb)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 历史决议预载缓存，已答过的歧义不再出现
	cache := resolve.NewCache()
	if seeded, err := h.store.LoadResolutions(fileHash); err == nil {
		cache.Seed(seeded)
	} else {
		log.Printf("加载历史决议失败: %v", err)
	}

	registry := parser.DefaultRegistry()
	resolver := resolve.NewResolver(registry, parser.NewClassifier(), cache, nil)
	runner := analysis.NewRunner(registry, resolver, nil)
	runner.SetScanConfig(h.scanConfig())

	logID, logErr := h.store.CreateScanLog(uploadedFile.Filename, fileHash)
	report := runner.Run(input)

	for _, req := range report.Pending {
		h.pending.put(req, fileHash)
	}

	if logErr == nil {
		passed, failed := 0, 0
		for _, r := range report.Results {
			switch r.Kind {
			case model.ResultPass:
				passed++
			case model.ResultFail:
				failed++
			}
		}
		if err := h.store.UpdateScanLog(logID, len(report.Results), passed, failed, len(report.Pending), "done", ""); err != nil {
			log.Printf("更新扫描日志失败: %v", err)
		}
	}

	c.JSON(http.StatusOK, ScanResponse{FileHash: fileHash, Report: report})
}

// buildInput 按 sheet 名把工作簿映射到逻辑数据来源
// 命名惯例：名称含 "3b" → 申报汇总，含 "2a" → 进项对账，
// 其余第一个 sheet → 销项明细。对账/汇总 sheet 缺失是允许的，
// 由各分析点按自己的策略处理来源缺失
func buildInput(wb *excelize.File) (analysis.Input, error) {
	grids := make(map[string]*model.Grid)

	for _, sheetName := range excel.SheetNames(wb) {
		lower := strings.ToLower(sheetName)
		var source string
		switch {
		case strings.Contains(lower, "3b"):
			source = analysis.SourceGSTR3B
		case strings.Contains(lower, "2a"):
			source = analysis.SourceGSTR2A
		default:
			source = analysis.SourceGSTR1
		}
		if _, ok := grids[source]; ok {
			continue
		}
		grid, err := excel.GridFromSheet(wb, sheetName)
		if err != nil {
			return analysis.Input{}, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
		}
		grids[source] = grid
	}

	if len(grids) == 0 {
		return analysis.Input{}, fmt.Errorf("workbook has no readable sheets")
	}
	return analysis.Input{Grids: grids}, nil
}

// scanConfig 配置里的扫描阈值叠加在默认参数上，零值字段不覆盖
func (h *Handler) scanConfig() parser.ScanConfig {
	cfg := parser.DefaultScanConfig()
	if h.cfg == nil {
		return cfg
	}
	sc := h.cfg.Scanner
	if sc.PrimaryWindow > 0 {
		cfg.PrimaryWindow = sc.PrimaryWindow
	}
	if sc.SecondaryWindow > 0 {
		cfg.SecondaryWindow = sc.SecondaryWindow
	}
	if sc.NumericDominance > 0 {
		cfg.NumericDominance = sc.NumericDominance
	}
	if sc.MinKeyMatches > 0 {
		cfg.MinKeyMatches = sc.MinKeyMatches
	}
	if sc.StrongMatchCount > 0 {
		cfg.StrongMatchCount = sc.StrongMatchCount
	}
	return cfg
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
