package card

import "fmt"

// Type 定义牌的种类
type Type string

const (
	TypeNumber  Type = "number"
	TypeSkip    Type = "skip"
	TypeReverse Type = "reverse"
	TypePlus2   Type = "plus2"
	TypePlus4   Type = "plus4"
	TypePlus20  Type = "plus20"
	TypeWild    Type = "wild"
)

// Color 定义牌的颜色，万能牌出牌前无颜色
type Color string

const (
	ColorNone   Color = ""
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
)

// Colors 四种可选颜色
var Colors = []Color{ColorRed, ColorBlue, ColorGreen, ColorYellow}

// Card 定义一张牌
type Card struct {
	Type        Type
	Color       Color // 万能牌为 ColorNone
	Value       int   // 仅 number 有意义，0-9
	ChosenColor Color // 万能牌打出时由出牌者指定
}

// drawAmounts 罚牌种类对应的罚牌数
var drawAmounts = map[Type]int{
	TypePlus2:  2,
	TypePlus4:  4,
	TypePlus20: 20,
}

// IsDraw 是否为罚牌类（可叠加）
func (c Card) IsDraw() bool {
	_, ok := drawAmounts[c.Type]
	return ok
}

// DrawAmount 罚牌数，非罚牌类返回 0
func (c Card) DrawAmount() int {
	return drawAmounts[c.Type]
}

// IsWild 是否为万能牌
func (c Card) IsWild() bool {
	return c.Type == TypeWild
}

// EffectiveColor 生效颜色：万能牌取所选颜色，其余取自身颜色
func (c Card) EffectiveColor() Color {
	if c.IsWild() {
		return c.ChosenColor
	}
	return c.Color
}

func (c Card) String() string {
	switch c.Type {
	case TypeNumber:
		return fmt.Sprintf("%s-%d", c.Color, c.Value)
	case TypeWild:
		if c.ChosenColor != ColorNone {
			return fmt.Sprintf("wild(%s)", c.ChosenColor)
		}
		return "wild"
	default:
		return fmt.Sprintf("%s-%s", c.Color, c.Type)
	}
}

// ValidColor 是否为四种可选颜色之一
func ValidColor(c Color) bool {
	switch c {
	case ColorRed, ColorBlue, ColorGreen, ColorYellow:
		return true
	}
	return false
}

// ValidType 是否为合法牌种
func ValidType(t Type) bool {
	switch t {
	case TypeNumber, TypeSkip, TypeReverse, TypePlus2, TypePlus4, TypePlus20, TypeWild:
		return true
	}
	return false
}

// Valid 校验一张（不可信来源的）牌是否符合数据模型
func (c Card) Valid() bool {
	if !ValidType(c.Type) {
		return false
	}
	if c.IsWild() {
		return c.Color == ColorNone && (c.ChosenColor == ColorNone || ValidColor(c.ChosenColor))
	}
	if !ValidColor(c.Color) || c.ChosenColor != ColorNone {
		return false
	}
	if c.Type == TypeNumber {
		return c.Value >= 0 && c.Value <= 9
	}
	return c.Value == 0
}
