package service

import (
	"component_catalog_v1_202609/internal/api/dto"
	"component_catalog_v1_202609/internal/model"
)

// ==================== 模型 → 视图转换 ====================

// ToComponentResp 部件模型转视图
func ToComponentResp(component *model.Component) dto.ComponentResp {
	resp := dto.ComponentResp{
		ID:            component.ID,
		ProductNumber: component.ProductNumber,
		SupplierID:    component.SupplierID,
		TypeID:        component.ComponentTypeID,
		Description:   component.Description,
		DataReview:    toReviewResp(component.DataReview),
		SampleReview:  toReviewResp(component.SampleReview),
		QualityReview: toReviewResp(component.QualityReview),
		CreatedAt:     component.CreatedAt,
		UpdatedAt:     component.UpdatedAt,
	}
	if code := component.SupplierCode(); code != nil {
		resp.SupplierCode = *code
	}

	if len(component.Properties) > 0 {
		resp.Properties = make(map[string]string, len(component.Properties))
		for key, entry := range component.Properties {
			resp.Properties[key] = entry.Value
		}
	}

	for i := range component.Variants {
		resp.Variants = append(resp.Variants, ToVariantResp(&component.Variants[i]))
	}
	for i := range component.Pictures {
		resp.Pictures = append(resp.Pictures, ToPictureResp(&component.Pictures[i]))
	}
	for _, link := range component.Brands {
		resp.BrandIDs = append(resp.BrandIDs, link.BrandID)
	}
	for _, link := range component.Categories {
		resp.CategoryIDs = append(resp.CategoryIDs, link.CategoryID)
	}
	return resp
}

func toReviewResp(state model.ReviewState) dto.ReviewStateResp {
	return dto.ReviewStateResp{
		Status:    state.Status,
		Comment:   state.Comment,
		CheckedAt: state.CheckedAt,
	}
}

// ToVariantResp 变体模型转视图
func ToVariantResp(variant *model.ComponentVariant) dto.VariantResp {
	resp := dto.VariantResp{
		ID:          variant.ID,
		ColorID:     variant.ColorID,
		DisplayName: variant.DisplayName,
		IsActive:    variant.IsActive,
	}
	if variant.Color != nil {
		resp.ColorName = variant.Color.Name
	}
	for i := range variant.Pictures {
		resp.Pictures = append(resp.Pictures, ToPictureResp(&variant.Pictures[i]))
	}
	return resp
}

// ToPictureResp 图片模型转视图
func ToPictureResp(picture *model.Picture) dto.PictureResp {
	return dto.PictureResp{
		ID:        picture.ID,
		Name:      picture.Name,
		URL:       picture.URL,
		Position:  picture.Position,
		IsPrimary: picture.IsPrimary,
		AltText:   picture.AltText,
	}
}
