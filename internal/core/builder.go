package core

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rdebiasec/gaby-website-admin/internal/models"
	"github.com/rdebiasec/gaby-website-admin/internal/utils"
)

// estTokensPerWord 词数折算token数的经验系数
const estTokensPerWord = 1.3

// BuildDataset 把页面结果合成为FAQ知识数据集
// 每个页面产出一条页面概览FAQ,每个章节产出一条章节FAQ;
// 问题按小写化文本去重(先写入者保留),总量受maxFaqs约束。
// FAQ顺序遵循页面顺序,页面内概览在前、章节按文档顺序
func BuildDataset(pages []*models.Page, config models.CrawlConfig) *models.Dataset {
	faqs := make([]models.FaqEntry, 0)
	seen := make(map[string]bool)
	totalSections := 0

	appendFaq := func(entry models.FaqEntry) {
		if len(faqs) >= config.MaxFaqs {
			return
		}
		key := strings.ToLower(entry.Question)
		if seen[key] {
			return
		}
		seen[key] = true
		faqs = append(faqs, entry)
	}

	for _, page := range pages {
		totalSections += len(page.Sections)

		if overview, ok := overviewFaq(page, config.SiteName); ok {
			appendFaq(overview)
		}
		for _, section := range page.Sections {
			appendFaq(sectionFaq(page, section, config.SiteName))
		}
	}

	dataset := &models.Dataset{
		ID:          models.NewID(),
		GeneratedAt: time.Now().UTC(),
		Source: models.DatasetSource{
			URL:      config.StartURL,
			SiteName: config.SiteName,
		},
		Config: models.ConfigSnapshot{
			MaxPages:        config.MaxPages,
			MaxFaqs:         config.MaxFaqs,
			MinSectionChars: config.MinSectionChars,
		},
		Metrics:     buildMetrics(pages, faqs, totalSections),
		Faqs:        faqs,
		CrawlReport: buildReport(pages),
	}

	utils.Infof("📊 数据集构建完成: %d 页面, %d 章节, %d 条FAQ",
		len(pages), totalSections, len(faqs))

	return dataset
}

// overviewFaq 页面概览FAQ
// 摘要为空的页面不产出概览条目;标题为空时退回URL
func overviewFaq(page *models.Page, siteName string) (models.FaqEntry, bool) {
	if page.Summary == "" {
		return models.FaqEntry{}, false
	}

	title := page.Title
	if title == "" {
		title = page.URL
	}

	return models.FaqEntry{
		Question:  fmt.Sprintf("What does the page '%s' cover on %s?", title, siteName),
		Answer:    utils.TruncateAtSentence(page.Summary, models.MaxAnswerChars),
		SourceURL: page.URL,
		Tags:      []string{"page-overview"},
	}, true
}

// sectionFaq 章节FAQ
func sectionFaq(page *models.Page, section models.Section, siteName string) models.FaqEntry {
	heading := utils.CleanHeading(section.Heading)

	return models.FaqEntry{
		Question:  fmt.Sprintf("What should I know about \"%s\" on %s?", heading, siteName),
		Answer:    utils.TruncateAtSentence(section.Content, models.MaxAnswerChars),
		SourceURL: page.URL,
		Tags:      []string{"section", utils.Slugify(heading)},
	}
}

// buildMetrics 计算数据集聚合指标
func buildMetrics(pages []*models.Page, faqs []models.FaqEntry, totalSections int) models.DatasetMetrics {
	totalAnswerWords := 0
	for _, f := range faqs {
		totalAnswerWords += utils.WordCount(f.Answer)
	}

	avgAnswerWords := 0.0
	if len(faqs) > 0 {
		avgAnswerWords = round1(float64(totalAnswerWords) / float64(len(faqs)))
	}

	pageCount := len(pages)
	if pageCount < 1 {
		pageCount = 1
	}

	return models.DatasetMetrics{
		TotalPages:      len(pages),
		TotalSections:   totalSections,
		TotalFaqs:       len(faqs),
		AvgAnswerWords:  avgAnswerWords,
		EstimatedTokens: int(math.Round(float64(totalAnswerWords) * estTokensPerWord)),
		CoverageScore:   round2(float64(len(faqs)) / float64(pageCount)),
	}
}

// buildReport 生成逐页爬取报告
func buildReport(pages []*models.Page) []models.PageReport {
	report := make([]models.PageReport, 0, len(pages))
	for _, page := range pages {
		report = append(report, models.PageReport{
			URL:          page.URL,
			Title:        page.Title,
			SectionCount: len(page.Sections),
			HasSummary:   page.Summary != "",
		})
	}
	return report
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
