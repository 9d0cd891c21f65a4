package content

// Well-known item graphics the core rules reference directly.
const (
	GfxBackpack         = 0x0348
	GfxShopContainer    = 0x00A7
	GfxSpellbook        = 0x0386
	GfxScrollLightsource = 0x0387
	GfxScrollDarksource = 0x0444
	GfxScrollGreatlight = 0x0445
	GfxScrollLight      = 0x0446
	GfxScrollHealing    = 0x0447
	GfxScrollFireball   = 0x0448
	GfxScrollCreatefood = 0x0449
	GfxDarksource       = 0x01B2
	GfxLightsource      = 0x01B3
	GfxTunic            = 0x02F1
	GfxPants            = 0x02F2
	GfxSkirt            = 0x02F3
	GfxDagger           = 0x02A0
	GfxHairStart        = 0x0424
	GfxHairEnd          = 0x0429
	GfxGold             = 0x01F8
	GfxBread            = 0x098C
	GfxCorpseHuman      = 0x3D67
	GfxCorpseSkeleton   = 0x3D66
	GfxCorpseOrc        = 0x3D65
	GfxCorpseDeer       = 0x3D69
	GfxCorpseWolf       = 0x3D6A
	GfxCorpseRabbit     = 0x3D6B
)

// Well-known mobile graphics.
const (
	MobHumanMale   = 0x00
	MobHumanFemale = 0x01
	MobDeer        = 0x05
	MobOrc         = 0x29
	MobSkeleton    = 0x2A
	MobWolf        = 0x22
	MobRabbit      = 0x21
)

// CharacterHeight is the vertical size of a standing mobile; combat is
// impossible across more than half of it.
const CharacterHeight = 16

// builtinItems and builtinMobiles seed every Table so the simulation rules
// work without a content directory. YAML files may override them.
var builtinItems = []ItemDef{
	{Graphic: GfxBackpack, Name: "backpack", Weight: 2, Layer: LayerBackpack, Container: true, Wearable: true, Gump: GumpBackpack},
	{Graphic: GfxShopContainer, Name: "shop stock", Weight: 1, Layer: LayerShop, Container: true, Gump: GumpShop},
	{Graphic: GfxSpellbook, Name: "spellbook", Weight: 2, Price: 500, Container: true, Gump: GumpSpellbook},
	{Graphic: GfxScrollLightsource, Name: "scroll of lightsource", Weight: 1, Price: 20, Stackable: true},
	{Graphic: GfxScrollDarksource, Name: "scroll of darksource", Weight: 1, Price: 20, Stackable: true},
	{Graphic: GfxScrollGreatlight, Name: "scroll of great light", Weight: 1, Price: 40, Stackable: true},
	{Graphic: GfxScrollLight, Name: "scroll of light", Weight: 1, Price: 15, Stackable: true},
	{Graphic: GfxScrollHealing, Name: "scroll of healing", Weight: 1, Price: 50, Stackable: true},
	{Graphic: GfxScrollFireball, Name: "scroll of fireball", Weight: 1, Price: 60, Stackable: true},
	{Graphic: GfxScrollCreatefood, Name: "scroll of create food", Weight: 1, Price: 25, Stackable: true},
	{Graphic: GfxDarksource, Name: "dark source", Weight: 1},
	{Graphic: GfxLightsource, Name: "light source", Weight: 1, LightLevel: 5},
	{Graphic: GfxTunic, Name: "tunic", Weight: 2, Price: 12, Layer: LayerShirt, Wearable: true},
	{Graphic: GfxPants, Name: "pants", Weight: 2, Price: 10, Layer: LayerPants, Wearable: true},
	{Graphic: GfxSkirt, Name: "skirt", Weight: 2, Price: 10, Layer: LayerPants, Wearable: true},
	{Graphic: GfxDagger, Name: "dagger", Weight: 1, Price: 18, Layer: LayerWeapon, Wearable: true},
	{Graphic: GfxGold, Name: "gold coin", Weight: 0, Price: 1, Stackable: true},
	{Graphic: GfxBread, Name: "loaf of bread", Weight: 1, Price: 3, Stackable: true},
	{Graphic: GfxCorpseHuman, Name: "a human corpse", Weight: 10, Container: true, Gump: GumpCorpse},
	{Graphic: GfxCorpseSkeleton, Name: "a skeleton corpse", Weight: 10, Container: true, Gump: GumpCorpse},
	{Graphic: GfxCorpseOrc, Name: "an orc corpse", Weight: 10, Container: true, Gump: GumpCorpse},
	{Graphic: GfxCorpseDeer, Name: "a deer corpse", Weight: 10, Container: true, Gump: GumpCorpse},
	{Graphic: GfxCorpseWolf, Name: "a wolf corpse", Weight: 10, Container: true, Gump: GumpCorpse},
	{Graphic: GfxCorpseRabbit, Name: "a rabbit corpse", Weight: 10, Container: true, Gump: GumpCorpse},
	{Graphic: GfxHairStart + 0, Name: "short hair", Layer: LayerHair, Wearable: true},
	{Graphic: GfxHairStart + 1, Name: "long hair", Layer: LayerHair, Wearable: true},
	{Graphic: GfxHairStart + 2, Name: "ponytail", Layer: LayerHair, Wearable: true},
	{Graphic: GfxHairStart + 3, Name: "braided hair", Layer: LayerHair, Wearable: true},
	{Graphic: GfxHairStart + 4, Name: "curly hair", Layer: LayerHair, Wearable: true},
	{Graphic: GfxHairStart + 5, Name: "wild hair", Layer: LayerHair, Wearable: true},
}

var builtinMobiles = []MobileDef{
	{
		Graphic: MobHumanMale, Name: "a man", CorpseGraphic: GfxCorpseHuman, LookingHeight: 9,
		HitSounds:   []int{0x7C, 0x7D, 0x81, 0x85},
		MissSounds:  []int{0xB0},
		PainSounds:  []int{0x95, 0x96, 0x97, 0x98, 0x99, 0x9A},
		DeathSounds: []int{0x9B, 0x9C, 0x9D, 0x9E},
	},
	{
		Graphic: MobHumanFemale, Name: "a woman", CorpseGraphic: GfxCorpseHuman, LookingHeight: 9,
		HitSounds:   []int{0x7C, 0x7D, 0x81, 0x85},
		MissSounds:  []int{0xB0},
		PainSounds:  []int{0x8B, 0x8C, 0x8D, 0x8E, 0x8F, 0x90},
		DeathSounds: []int{0x91, 0x92, 0x93, 0x94},
	},
	{
		Graphic: MobSkeleton, Name: "a skeleton", CorpseGraphic: GfxCorpseSkeleton, LookingHeight: 8,
		HitSounds:   []int{0x86, 0x88},
		MissSounds:  []int{0xB0},
		DeathSounds: []int{0x7E},
	},
	{Graphic: MobOrc, Name: "an orc", CorpseGraphic: GfxCorpseOrc, LookingHeight: 6},
	{Graphic: MobDeer, Name: "a deer", CorpseGraphic: GfxCorpseDeer, LookingHeight: 4},
	{Graphic: MobWolf, Name: "a wolf", CorpseGraphic: GfxCorpseWolf, LookingHeight: 3},
	{Graphic: MobRabbit, Name: "a rabbit", CorpseGraphic: GfxCorpseRabbit, LookingHeight: 1},
}
