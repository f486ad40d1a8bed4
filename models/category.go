package models

// Category 消费类别，固定 8 个取值
type Category string

// 消费类别常量
const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryHealth        Category = "Health"
	CategoryEducation     Category = "Education"
	CategoryBills         Category = "Bills"
	CategoryOthers        Category = "Others"
)

// GetCategories 获取所有消费类别
func GetCategories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryEntertainment,
		CategoryHealth,
		CategoryEducation,
		CategoryBills,
		CategoryOthers,
	}
}

// Valid 是否为合法类别
func (c Category) Valid() bool {
	for _, v := range GetCategories() {
		if v == c {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
