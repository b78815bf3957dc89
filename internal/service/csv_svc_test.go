package service

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"component_catalog_v1_202609/internal/api/dto"
	"component_catalog_v1_202609/internal/model"
	"component_catalog_v1_202609/internal/repository"
)

// ==================== CSV 服务测试 ====================

func newTestCSVService(t *testing.T) (*CSVService, *ComponentLifecycleService, *repository.CatalogUnitOfWork, *catalogFixture) {
	db := setupCatalogTestDB(t)
	// 导入任务表单独迁移（生产为 Postgres text[]，sqlite 按文本列兼容）
	if err := db.AutoMigrate(&model.ImportJob{}); err != nil {
		t.Fatalf("导入任务表迁移失败: %v", err)
	}
	fixture := seedLookups(t, db)
	uow := repository.NewCatalogUnitOfWork(db)
	lifecycle := NewComponentLifecycleService(uow, &mockAssets{})
	return NewCSVService(uow, lifecycle), lifecycle, uow, fixture
}

func TestCSVService_ImportComponents(t *testing.T) {
	svc, _, uow, fixture := newTestCSVService(t)
	ctx := context.Background()

	csv := "product_number,supplier_code,component_type_id,description,brands,categories,keywords\n" +
		"PN-100,SUP-01," + itoa64(fixture.Type.ID) + ",第一行,Acme;Globex,Hardware,zipper;metal\n" +
		"PN-200,," + itoa64(fixture.Type.ID) + ",无供应商行,,,\n" +
		"PN-300,UNKNOWN," + itoa64(fixture.Type.ID) + ",坏行,,,\n"

	job, err := svc.ImportComponents(ctx, "components.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportComponents() error = %v", err)
	}

	if job.Total != 3 || job.Created != 2 || job.Failed != 1 {
		t.Errorf("job = total %d created %d updated %d failed %d",
			job.Total, job.Created, job.Updated, job.Failed)
	}
	if job.Status != model.ImportJobStatusDone {
		t.Errorf("状态 = %q, want done", job.Status)
	}
	if len(job.RowErrors) != 1 || !strings.Contains(job.RowErrors[0], "UNKNOWN") {
		t.Errorf("行错误 = %v", job.RowErrors)
	}

	// 身份重复的再导一次 → 转更新
	again, err := svc.ImportComponents(ctx, "components.csv", strings.NewReader(
		"product_number,supplier_code,component_type_id,description\n"+
			"PN-100,SUP-01,"+itoa64(fixture.Type.ID)+",更新后的描述\n"))
	if err != nil {
		t.Fatalf("二次导入失败: %v", err)
	}
	if again.Created != 0 || again.Updated != 1 {
		t.Errorf("二次导入 created %d updated %d", again.Created, again.Updated)
	}

	components, total, err := uow.Components.List(ctx, repository.ComponentFilter{Page: 1, PageSize: 10})
	if err != nil || total != 2 {
		t.Fatalf("部件总数 = %d (%v), want 2", total, err)
	}
	for i := range components {
		if components[i].ProductNumber == "PN-100" && components[i].Description != "更新后的描述" {
			t.Errorf("描述未更新: %q", components[i].Description)
		}
	}

	// 任务持久化
	jobs, err := uow.ImportJobs.List(ctx, 10)
	if err != nil || len(jobs) != 2 {
		t.Errorf("任务记录数 = %d (%v), want 2", len(jobs), err)
	}
}

func TestCSVService_ImportComponents_MissingHeader(t *testing.T) {
	svc, _, _, _ := newTestCSVService(t)
	_, err := svc.ImportComponents(context.Background(), "bad.csv",
		strings.NewReader("description,brands\nfoo,bar\n"))
	if err == nil {
		t.Fatal("缺必需表头应返回错误")
	}
}

func TestCSVService_ExportComponents(t *testing.T) {
	svc, lifecycle, _, fixture := newTestCSVService(t)
	ctx := context.Background()

	if _, err := lifecycle.Create(ctx, &dto.CreateComponentRequest{
		ProductNumber:   "PN-100",
		SupplierID:      &fixture.Supplier.ID,
		ComponentTypeID: fixture.Type.ID,
		Description:     "出口测试",
		BrandNames:      []string{"Acme"},
		CategoryNames:   []string{"Hardware"},
		Keywords:        []string{"zipper"},
	}); err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.ExportComponents(ctx, &buf); err != nil {
		t.Fatalf("ExportComponents() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("导出行数 = %d, want 2 (表头+1行): %q", len(lines), buf.String())
	}
	if lines[0] != strings.Join(csvHeader, ",") {
		t.Errorf("表头 = %q", lines[0])
	}
	for _, want := range []string{"PN-100", "SUP-01", "出口测试", "Acme", "Hardware", "zipper"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("导出行缺少 %q: %q", want, lines[1])
		}
	}
}

func itoa64(n int64) string {
	return strconv.FormatInt(n, 10)
}
