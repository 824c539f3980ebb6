package types

// ProductPairFilter defines query parameters for listing association pairs.
// Results are always ordered by support descending.
type ProductPairFilter struct {
	*QueryFilter
	*TimeRangeFilter

	ProductID   *string `json:"product_id,omitempty" form:"product_id"`
	ProductType *string `json:"product_type,omitempty" form:"product_type"`
}

// NewProductPairFilter creates a filter with default pagination
func NewProductPairFilter() *ProductPairFilter {
	return &ProductPairFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *ProductPairFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

func (f *ProductPairFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return 0
	}
	return f.QueryFilter.GetOffset()
}

func (f *ProductPairFilter) GetPage() int {
	if f.QueryFilter == nil {
		return 1
	}
	return f.QueryFilter.GetPage()
}

func (f *ProductPairFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().IsUnlimited()
	}
	return f.QueryFilter.IsUnlimited()
}

func (f *ProductPairFilter) GetStatus() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetStatus()
	}
	return f.QueryFilter.GetStatus()
}

func (f *ProductPairFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.TimeRangeFilter != nil {
		if err := f.TimeRangeFilter.Validate(); err != nil {
			return err
		}
	}
	return nil
}
