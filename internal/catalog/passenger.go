package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yuhnmomo/magictrain/internal/game"
)

// Passenger is a roster entry from the passenger data file. Unlike the
// core characters, passengers carry structured traits and derive their
// persona and greeting from them.
type Passenger struct {
	Num           string `yaml:"num"`
	Name          string `yaml:"name"`
	EnglishName   string `yaml:"englishName"`
	Gender        string `yaml:"gender"`
	Nationality   string `yaml:"nationality"`
	Age           string `yaml:"age"`
	Zodiac        string `yaml:"zodiac"`
	Appearance    string `yaml:"appearance"`
	Personality   string `yaml:"personality"`
	IntimacyStyle string `yaml:"intimacyStyle"`
	Attributes    string `yaml:"attributes"`
}

const avatarBase = "https://raw.githubusercontent.com/yuhnmomo/yuhnmomo.github.io/main/Role/MagicTrain/pic"

// Personality groups each select their own pool of greeting templates.
var greetingPools = map[string][]string{
	"reserved": {
		"你好，我是%s。",
		"我是%s，有什麼事嗎？",
		"（他只是靜靜地看了你一眼，微微點頭致意。）",
		"%s。",
		"嗯。",
	},
	"outgoing": {
		"嗨！我是%s，很高興認識你！",
		"嘿，我叫%s，要聊聊嗎？",
	},
	"gentle": {
		"你好，我是%s。很高興能在這裡遇見你。",
		"你好，我叫%s。有什麼需要幫忙的隨時可以說。",
	},
	"romantic": {
		"嘿，旅途愉快嗎？我是%s。",
		"看來我們是同路人呢。我叫%s。",
	},
	"creative": {
		"唷，新面孔。我是%s，多指教。",
		"你看起來挺有趣的。我叫%s。",
	},
}

var personalityGroups = map[string]string{
	"聰敏含蓄": "reserved", "理智睿智": "reserved", "冷靜孤傲": "reserved",
	"理性深沉": "reserved", "精緻挑剔": "reserved", "嚴謹冷靜": "reserved",
	"感性內斂": "reserved", "內斂守禮": "reserved", "細緻審慎": "reserved",
	"洞察冷靜": "reserved",
	"自信強烈": "outgoing", "豪爽奔放": "outgoing", "熱情直接": "outgoing",
	"主動熱烈": "outgoing", "熱血直白": "outgoing", "果敢霸氣": "outgoing",
	"自由熱血": "outgoing",
	"細膩感性": "gentle", "溫柔風趣": "gentle", "細膩體貼": "gentle",
	"務實體貼": "gentle", "踏實可靠": "gentle",
	"瀟灑浪漫": "romantic", "浪漫熱情": "romantic", "感性夢幻": "romantic",
	"隨性放浪": "romantic",
	"靈動聰穎": "creative", "叛逆創新": "creative", "創新風趣": "creative",
	"圓融機敏": "creative",
}

func (p Passenger) expand(choose Chooser) (game.Character, error) {
	attrs, err := ParseAttributes(p.Attributes)
	if err != nil {
		return game.Character{}, fmt.Errorf("passenger %s: %w", p.Num, err)
	}

	persona := fmt.Sprintf(
		"你是一位名為%s的列車乘客。你是%s人，%s歲的%s%s性。你的外貌特徵是：%s。你的性格%s。你的親密風格代號是 %s，請參考總綱中的親密風格定義來扮演。你的所有回應都必須使用繁體中文。",
		p.Name, p.Nationality, p.Age, p.Zodiac, p.Gender,
		p.Appearance, p.Personality, p.IntimacyStyle,
	)

	return game.Character{
		ID:          "fp" + p.Num,
		Name:        fmt.Sprintf("%s (%s)", p.Name, p.EnglishName),
		Avatar:      fmt.Sprintf("%s/FP%s.png", avatarBase, p.Num),
		Description: fmt.Sprintf("%s%s%s性，%s歲，%s。", p.Nationality, p.Zodiac, p.Gender, p.Age, p.Appearance),
		Persona:     persona,
		Greeting:    p.greeting(choose),
		Attributes:  attrs,
	}, nil
}

func (p Passenger) greeting(choose Chooser) string {
	pool, ok := greetingPools[personalityGroups[p.Personality]]
	if !ok {
		return fmt.Sprintf("你好，我叫%s。", p.Name)
	}
	tmpl := pool[choose(len(pool))]
	if !strings.Contains(tmpl, "%s") {
		return tmpl
	}
	return fmt.Sprintf(tmpl, p.Name)
}

// ParseAttributes reads a talent string like "O3/I2/B1/S2".
func ParseAttributes(s string) (game.Attributes, error) {
	var attrs game.Attributes
	for _, part := range strings.Split(s, "/") {
		part = strings.TrimSpace(part)
		if len(part) < 2 {
			return attrs, fmt.Errorf("bad attribute segment %q in %q", part, s)
		}
		v, err := strconv.Atoi(part[1:])
		if err != nil {
			return attrs, fmt.Errorf("bad attribute value in %q: %w", s, err)
		}
		switch part[0] {
		case 'O':
			attrs.Observation = v
		case 'I':
			attrs.Insight = v
		case 'B':
			attrs.Body = v
		case 'S':
			attrs.Social = v
		default:
			return attrs, fmt.Errorf("unknown attribute %q in %q", part[0], s)
		}
	}
	return attrs, nil
}
