package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"component_catalog_v1_202609/internal/api/dto"
	"component_catalog_v1_202609/internal/model"
	"component_catalog_v1_202609/internal/repository"
	"component_catalog_v1_202609/pkg/logger"
)

// ==================== CSV 批量导入/导出 ====================

// csv 列顺序（导入导出共用）
var csvHeader = []string{
	"product_number", "supplier_code", "component_type_id",
	"description", "brands", "categories", "keywords",
}

// CSVService CSV 批量导入导出
// 逐行走生命周期门面，身份已存在则转更新；单行失败不中断整批
type CSVService struct {
	uow       *repository.CatalogUnitOfWork
	lifecycle *ComponentLifecycleService
}

// NewCSVService 创建 CSV 服务
func NewCSVService(uow *repository.CatalogUnitOfWork, lifecycle *ComponentLifecycleService) *CSVService {
	return &CSVService{uow: uow, lifecycle: lifecycle}
}

// ImportComponents 导入部件
// 首行必须是表头；supplier_code 须已建档（导入不替你发明供应商）
func (s *CSVService) ImportComponents(ctx context.Context, filename string, r io.Reader) (*model.ImportJob, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", ErrValidation)
	}
	colIndex, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	job := &model.ImportJob{
		Filename: filename,
		Status:   model.ImportJobStatusRunning,
	}
	if err := s.uow.ImportJobs.Create(ctx, job); err != nil {
		return nil, err
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			job.Failed++
			job.RowErrors = append(job.RowErrors, fmt.Sprintf("第 %d 行: %v", line, err))
			continue
		}
		job.Total++

		created, err := s.importRow(ctx, colIndex, record)
		if err != nil {
			job.Failed++
			job.RowErrors = append(job.RowErrors, fmt.Sprintf("第 %d 行: %v", line, err))
			continue
		}
		if created {
			job.Created++
		} else {
			job.Updated++
		}
	}

	job.Status = model.ImportJobStatusDone
	if job.Failed > 0 && job.Created == 0 && job.Updated == 0 {
		job.Status = model.ImportJobStatusFailed
	}
	if err := s.uow.ImportJobs.Update(ctx, job); err != nil {
		return nil, err
	}

	logger.Get().Info("CSV 导入完成",
		zap.String("filename", filename),
		zap.Int("total", job.Total),
		zap.Int("created", job.Created),
		zap.Int("updated", job.Updated),
		zap.Int("failed", job.Failed),
	)
	return job, nil
}

// indexHeader 校验表头并建列名索引
func indexHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"product_number", "component_type_id"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("表头缺少 %s 列: %w", required, ErrValidation)
		}
	}
	return index, nil
}

func field(colIndex map[string]int, record []string, name string) string {
	i, ok := colIndex[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// importRow 处理单行：身份不存在则创建，存在则转为更新
func (s *CSVService) importRow(ctx context.Context, colIndex map[string]int, record []string) (created bool, err error) {
	productNumber := field(colIndex, record, "product_number")
	if productNumber == "" {
		return false, fmt.Errorf("product_number 为空: %w", ErrValidation)
	}
	typeID, err := strconv.ParseInt(field(colIndex, record, "component_type_id"), 10, 64)
	if err != nil {
		return false, fmt.Errorf("component_type_id 非法: %w", ErrValidation)
	}

	var supplierID *int64
	if code := field(colIndex, record, "supplier_code"); code != "" {
		supplier, err := s.uow.Lookups.GetSupplierByCode(ctx, code)
		if err != nil {
			return false, fmt.Errorf("供应商编码 %s 未建档: %w", code, ErrValidation)
		}
		supplierID = &supplier.ID
	}

	req := &dto.CreateComponentRequest{
		ProductNumber:   productNumber,
		SupplierID:      supplierID,
		ComponentTypeID: typeID,
		Description:     field(colIndex, record, "description"),
		BrandNames:      splitList(field(colIndex, record, "brands")),
		CategoryNames:   splitList(field(colIndex, record, "categories")),
		Keywords:        splitList(field(colIndex, record, "keywords")),
	}

	_, err = s.lifecycle.Create(ctx, req)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, ErrDuplicateKey) {
		return false, err
	}

	// 身份已存在：定位既有部件后转更新（仅覆盖描述，不动关联）
	existing, err := s.findByIdentity(ctx, productNumber, supplierID)
	if err != nil {
		return false, err
	}
	description := req.Description
	_, err = s.lifecycle.Update(ctx, existing.ID, &dto.UpdateComponentRequest{
		Description: &description,
	})
	return false, err
}

// findByIdentity 按合并身份取既有部件
func (s *CSVService) findByIdentity(ctx context.Context, productNumber string, supplierID *int64) (*model.Component, error) {
	filter := repository.ComponentFilter{Keyword: productNumber, Page: 1, PageSize: 50}
	if supplierID != nil {
		filter.SupplierID = *supplierID
	}
	components, _, err := s.uow.Components.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range components {
		c := &components[i]
		if c.ProductNumber != productNumber {
			continue
		}
		if (c.SupplierID == nil) != (supplierID == nil) {
			continue
		}
		if supplierID != nil && *c.SupplierID != *supplierID {
			continue
		}
		return c, nil
	}
	return nil, fmt.Errorf("部件 %s: %w", productNumber, ErrNotFound)
}

// ExportComponents 导出全部部件为 CSV
func (s *CSVService) ExportComponents(ctx context.Context, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	page := 1
	const pageSize = 200
	for {
		components, _, err := s.uow.Components.List(ctx, repository.ComponentFilter{Page: page, PageSize: pageSize})
		if err != nil {
			return err
		}
		if len(components) == 0 {
			break
		}
		for i := range components {
			// 列表查询不带关联，逐个深加载拿品牌/分类/关键词
			c, err := s.uow.Components.GetDeep(ctx, components[i].ID)
			if err != nil {
				return err
			}
			supplierCode := ""
			if code := c.SupplierCode(); code != nil {
				supplierCode = *code
			}
			record := []string{
				c.ProductNumber,
				supplierCode,
				strconv.FormatInt(c.ComponentTypeID, 10),
				c.Description,
				joinNames(brandNames(c)),
				joinNames(categoryNames(c)),
				joinNames(keywordNames(c)),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
		if len(components) < pageSize {
			break
		}
		page++
	}

	writer.Flush()
	return writer.Error()
}

func joinNames(names []string) string {
	return strings.Join(names, ";")
}

func brandNames(c *model.Component) []string {
	out := make([]string, 0, len(c.Brands))
	for _, link := range c.Brands {
		if link.Brand != nil {
			out = append(out, link.Brand.Name)
		}
	}
	return out
}

func categoryNames(c *model.Component) []string {
	out := make([]string, 0, len(c.Categories))
	for _, link := range c.Categories {
		if link.Category != nil {
			out = append(out, link.Category.Name)
		}
	}
	return out
}

func keywordNames(c *model.Component) []string {
	out := make([]string, 0, len(c.Keywords))
	for _, link := range c.Keywords {
		if link.Keyword != nil {
			out = append(out, link.Keyword.Word)
		}
	}
	return out
}
