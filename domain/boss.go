package domain

import "fmt"

// Boss はチェックリストが追跡するボスの識別子です。
// カタログ順 (永続化ファイルの行順) に並んでいます。
type Boss uint8

const (
	WallOfFlesh Boss = iota // ハードモード突入で撃破扱いになる疑似ボス
	EyeOfCthulhu
	EaterOfWorldsBrainOfCthulhu
	Skeletron
	QueenBee
	KingSlime
	Plantera
	Golem
	DukeFishron
	LunaticCultist
	MoonLord
	EmpressOfLight
	QueenSlime
	TheDestroyer
	TheTwins
	SkeletronPrime
	Deerclops

	bossCount
)

// BossCount はカタログのエントリ数です。
const BossCount = int(bossCount)

// Offset はメモリスナップショット内のボス撃破フラグの位置です。
type Offset uint16

// Selector はチェックリスト画面上でボスを指す名前です。
// Form が true の場合 Name はフォームグループ名で、実際の名前は表示側で解決します。
type Selector struct {
	Name string
	Form bool
}

type bossInfo struct {
	id       string
	name     string
	selector Selector
	hasUI    bool
	offset   Offset
	tracked  bool
}

var catalog = [bossCount]bossInfo{
	WallOfFlesh:                 {id: "WallofFlesh", name: "Wall of Flesh", selector: Selector{Name: "wall_of_flesh"}, hasUI: true},
	EyeOfCthulhu:                {id: "EyeofCthulhu", name: "Eye of Cthulhu", selector: Selector{Name: "cthulhuForm", Form: true}, hasUI: true, offset: 0x00, tracked: true},
	EaterOfWorldsBrainOfCthulhu: {id: "EaterofWorldsBrainofCthulhu", name: "Eater of Worlds / Brain of Cthulhu", selector: Selector{Name: "eaterBrainForm", Form: true}, hasUI: true, offset: 0x01, tracked: true},
	Skeletron:                   {id: "Skeletron", name: "Skeletron", selector: Selector{Name: "skeletron"}, hasUI: true, offset: 0x02, tracked: true},
	QueenBee:                    {id: "QueenBee", name: "Queen Bee", selector: Selector{Name: "queen_bee"}, hasUI: true, offset: 0x03, tracked: true},
	KingSlime:                   {id: "KingSlime", name: "King Slime", selector: Selector{Name: "king_slime"}, hasUI: true, offset: 0x04, tracked: true},
	Plantera:                    {id: "Plantera", name: "Plantera", selector: Selector{Name: "planteraForm", Form: true}, hasUI: true, offset: 0x05, tracked: true},
	Golem:                       {id: "Golem", name: "Golem", selector: Selector{Name: "golem"}, hasUI: true, offset: 0x06, tracked: true},
	DukeFishron:                 {id: "DukeFishron", name: "Duke Fishron", selector: Selector{Name: "duke_fishron"}, hasUI: true, offset: 0x07, tracked: true},
	LunaticCultist:              {id: "LunaticCultist", name: "Lunatic Cultist", selector: Selector{Name: "lunatic_cultist"}, hasUI: true, offset: 0x08, tracked: true},
	MoonLord:                    {id: "MoonLord", name: "Moon Lord", selector: Selector{Name: "moon_lord"}, hasUI: true, offset: 0x09, tracked: true},
	EmpressOfLight:              {id: "EmpressofLight", name: "Empress of Light", selector: Selector{Name: "empress_of_light"}, hasUI: true, offset: 0x0A, tracked: true},
	QueenSlime:                  {id: "QueenSlime", name: "Queen Slime", selector: Selector{Name: "queen_slime"}, hasUI: true, offset: 0x0B, tracked: true},
	TheDestroyer:                {id: "TheDestroyer", name: "The Destroyer", selector: Selector{Name: "the_destroyer"}, hasUI: true, offset: 0x0C, tracked: true},
	TheTwins:                    {id: "TheTwins", name: "The Twins", selector: Selector{Name: "twinsForm", Form: true}, hasUI: true, offset: 0x0D, tracked: true},
	SkeletronPrime:              {id: "SkeletronPrime", name: "Skeletron Prime", selector: Selector{Name: "skeletron_prime"}, hasUI: true, offset: 0x0E, tracked: true},
	Deerclops:                   {id: "Deerclops", name: "Deerclops", offset: 0x0F, tracked: true},
}

// フォームグループごとの選択肢。先頭がデフォルトです。
var formVariants = map[string][]string{
	"cthulhuForm":    {"eye_of_cthulhu", "eye_of_cthulhu_phase2"},
	"eaterBrainForm": {"eater_of_worlds", "brain_of_cthulhu"},
	"planteraForm":   {"plantera", "plantera_phase2"},
	"twinsForm":      {"retinazer", "spazmatism"},
}

var (
	bossByID     = make(map[string]Boss, bossCount)
	bossByOffset = make(map[Offset]Boss, bossCount)
)

func init() {
	for b := Boss(0); b < bossCount; b++ {
		bossByID[catalog[b].id] = b
		if catalog[b].tracked {
			bossByOffset[catalog[b].offset] = b
		}
	}
}

// ID は永続化ファイルで使う安定した識別子を返します。
func (b Boss) ID() string {
	if !b.Valid() {
		return fmt.Sprintf("Boss(%d)", b)
	}
	return catalog[b].id
}

func (b Boss) String() string { return b.ID() }

// DisplayName は人が読むための名前を返します。
func (b Boss) DisplayName() string {
	if !b.Valid() {
		return b.ID()
	}
	return catalog[b].name
}

// Selector はチェックリスト画面の名前を返します。画面に存在しないボスは ok=false です。
func (b Boss) Selector() (Selector, bool) {
	if !b.Valid() || !catalog[b].hasUI {
		return Selector{}, false
	}
	return catalog[b].selector, true
}

// Offset はメモリ上の撃破フラグ位置を返します。疑似ボスは ok=false です。
func (b Boss) Offset() (Offset, bool) {
	if !b.Valid() || !catalog[b].tracked {
		return 0, false
	}
	return catalog[b].offset, true
}

func (b Boss) Valid() bool { return b < bossCount }

// Catalog はカタログ順の全ボスを返します。
func Catalog() []Boss {
	out := make([]Boss, 0, bossCount)
	for b := Boss(0); b < bossCount; b++ {
		out = append(out, b)
	}
	return out
}

// TrackedBosses はメモリオフセットで追跡するボスをカタログ順で返します。
func TrackedBosses() []Boss {
	out := make([]Boss, 0, bossCount)
	for b := Boss(0); b < bossCount; b++ {
		if catalog[b].tracked {
			out = append(out, b)
		}
	}
	return out
}

func ParseBoss(id string) (Boss, bool) {
	b, ok := bossByID[id]
	return b, ok
}

func BossAt(offset Offset) (Boss, bool) {
	b, ok := bossByOffset[offset]
	return b, ok
}

// FormVariants はフォームグループの選択肢をコピーで返します。
func FormVariants(group string) []string {
	v, ok := formVariants[group]
	if !ok {
		return nil
	}
	return append([]string(nil), v...)
}
