package dwr

import (
	"strings"
	"testing"
	"time"

	"bandex/internal/model"
)

const (
	replyPrefix = "throw 'allowScriptTagRemoting is false.';\n(function(){\r\nif(!window.dwr)return;\r\nvar dwr=window.dwr._[0];\n//#DWR-REPLY\ndwr.engine.remote.handleCallback(\"0\",\"a\",["
	replySuffix = "]);\n})();\n"

	restaurantObject = `cdpdia:null,codddd1:11,codrtn:6,diames:0,diasemana:0,dtainismncdp:null,dtarfi:null,nomrtn:"Restaurante Central",numtel1:3.0913318E7,obscdp:null,obscdpsmn:null,tiprfi:null,vlrclorfi:0`

	closedObject = `cdpdia:"Fechado",codddd1:0,codrtn:7,diames:9,diasemana:1,dtainismncdp:"09\/03\/2025",dtarfi:"09\/03\/2025",nomrtn:null,numtel1:0.0,obscdp:null,obscdpsmn:"Card\u00E1pio sujeito a modifica\u00E7\u00E3o.<br><br>**Os Restaurantes Universit\u00E1rios n\u00E3o fornecem copos descart\u00E1veis. Tragam suas canecas.**",tiprfi:"J",vlrclorfi:0`

	lunchObject = `cdpdia:"Arroz \/ feij\u00E3o \/ arroz integral<br>Lingui\u00E7a com molho barbecue<br>Op\u00E7\u00E3o: PVT com milho e ervilha<br>Macarr\u00E3o ao sugo<br>Salada de repolho bicolor<br>Laranja<br>Minip\u00E3o \/ refresco<br><br><br><br>**Os Restaurantes Universit\u00E1rios n\u00E3o fornecem copos descart\u00E1veis. Tragam suas canecas.**",codddd1:0,codrtn:7,diames:6,diasemana:5,dtainismncdp:"06\/03\/2025",dtarfi:"06\/03\/2025",nomrtn:null,numtel1:0.0,obscdp:null,obscdpsmn:"Card\u00E1pio sujeito a modifica\u00E7\u00E3o.<br><br>**Os Restaurantes Universit\u00E1rios n\u00E3o fornecem copos descart\u00E1veis. Tragam suas canecas.**",tiprfi:"A",vlrclorfi:1030`
)

func reply(objects ...string) string {
	return replyPrefix + "{" + strings.Join(objects, "},{") + "}" + replySuffix
}

func TestSliceObjects_SingleRecord(t *testing.T) {
	got, ok := SliceObjects(reply(restaurantObject))
	if !ok {
		t.Fatal("expected objects")
	}
	if got != restaurantObject {
		t.Errorf("unexpected slice: %q", got)
	}
}

func TestSliceObjects_TwoRecords(t *testing.T) {
	got, ok := SliceObjects(reply("key1:value1", "key2:value2"))
	if !ok {
		t.Fatal("expected objects")
	}
	if got != "key1:value1},{key2:value2" {
		t.Errorf("unexpected slice: %q", got)
	}
	if parts := SplitObjects(got); len(parts) != 2 || parts[0] != "key1:value1" || parts[1] != "key2:value2" {
		t.Errorf("unexpected split: %q", parts)
	}
}

func TestSliceObjects_MissingMarkers(t *testing.T) {
	for _, body := range []string{
		"",
		replyPrefix + replySuffix,
		"handleCallback([{key:1]);",
		"handleCallback([key:1}]);",
		"}] before [{",
	} {
		if got, ok := SliceObjects(body); ok {
			t.Errorf("SliceObjects(%q) = %q, expected no data", body, got)
		}
	}
}

func TestFieldValue_KeyValuePairs(t *testing.T) {
	if v, ok := FieldValue("key1:test,key2:123", "key1"); !ok || v != "test" {
		t.Errorf("key1: got %q, %v", v, ok)
	}
	if v, ok := FieldValue("key1:test,key2:123", "key2"); !ok || v != "123" {
		t.Errorf("key2: got %q, %v", v, ok)
	}
	if _, ok := FieldValue("key1:test,key2:123", "key3"); ok {
		t.Error("key3: expected no value")
	}
}

func TestFieldValue_RecordFields(t *testing.T) {
	cases := map[string]string{
		KeyMenu:        `"Fechado"`,
		KeyMealType:    `"A"`,
		KeyCalories:    "0",
		"dtainismncdp": `"04\/03\/2025"`,
		"obscdp":       "null",
	}
	object := `cdpdia:"Fechado",codddd1:0,codrtn:7,diames:4,diasemana:3,dtainismncdp:"04\/03\/2025",dtarfi:"04\/03\/2025",nomrtn:null,numtel1:0.0,obscdp:null,obscdpsmn:"Card\u00E1pio",tiprfi:"A",vlrclorfi:0`
	for key, want := range cases {
		got, ok := FieldValue(object, key)
		if !ok {
			t.Errorf("%s: expected value", key)
			continue
		}
		if got != want {
			t.Errorf("%s: expected %q, got %q", key, want, got)
		}
	}
}

func TestFormatText_MenuFixture(t *testing.T) {
	raw := `"Arroz \/ feij\u00E3o \/ arroz integral<br>Carne em cubos com molho ferrugem <br>Op\u00E7\u00E3o: Ovos mexidos com legumes<br>Berinjela com piment\u00F5es <br>Salada de alface<br>Sag\u00FA com groselha<br>Minip\u00E3o \/ refresco<br><br>**Os Restaurantes Universit\u00E1rios n\u00E3o fornecem copos descart\u00E1veis. Tragam suas canecas.**"`
	want := "Arroz, feijão, arroz integral\nCarne em cubos com molho ferrugem \nOpção: Ovos mexidos com legumes\nBerinjela com pimentões \nSalada de alface\nSagú com groselha\nMinipão, refresco\n\n**Os Restaurantes Universitários não fornecem copos descartáveis. Tragam suas canecas.**"

	got, ok := FormatText(raw)
	if !ok {
		t.Fatal("expected formatted text")
	}
	if got != want {
		t.Errorf("unexpected text:\n%q\nwant:\n%q", got, want)
	}
}

func TestFormatText_Separators(t *testing.T) {
	got, ok := FormatText(`"\u00C3h \/ <br>\u00F1 \u00E7\u00F5\u00FA<br> \/ \u00E1"`)
	if !ok {
		t.Fatal("expected formatted text")
	}
	if want := "Ãh, \nñ çõú\n, á"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatText_Entities(t *testing.T) {
	got, ok := FormatText(`"Arroz &amp; feij&atilde;o \"carioca\""`)
	if !ok {
		t.Fatal("expected formatted text")
	}
	if want := `Arroz & feijão "carioca"`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatText_SurrogatePair(t *testing.T) {
	got, ok := FormatText(`"Sobremesa \uD83C\uDF70"`)
	if !ok {
		t.Fatal("expected formatted text")
	}
	if want := "Sobremesa 🍰"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatText_IdempotentOnCleanText(t *testing.T) {
	for _, clean := range []string{
		"Salada de alface",
		"Arroz, feijão\nFrango grelhado",
		"Fechado",
	} {
		once, ok := FormatText(`"` + clean + `"`)
		if !ok {
			t.Fatalf("%q: expected formatted text", clean)
		}
		twice, ok := FormatText(`"` + once + `"`)
		if !ok {
			t.Fatalf("%q: expected formatted text on second pass", clean)
		}
		if once != clean || twice != once {
			t.Errorf("%q: once=%q twice=%q", clean, once, twice)
		}
	}
}

func TestFormatText_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		`"`,
		`"bad \q escape"`,
		`"truncated \u00E"`,
		`"lone \uD83C surrogate"`,
		`"trailing \"`,
	} {
		if got, ok := FormatText(raw); ok {
			t.Errorf("FormatText(%q) = %q, expected failure", raw, got)
		}
	}
}

func TestFormatText_HexAndOctalEscapes(t *testing.T) {
	cases := map[string]string{
		`"Caf\xE9"`:        "Café",
		`"\101rroz"`:       "Arroz",
		`"p\303\243o"`:     "p\u00c3\u00a3o",
		`"a\0b"`:           "a\x00b",
		`"tab\11here"`:     "tab\there",
		`"octal \400 cut"`: "octal \x200 cut",
	}
	for raw, want := range cases {
		got, ok := FormatText(raw)
		if !ok {
			t.Errorf("FormatText(%q): expected success", raw)
			continue
		}
		if got != want {
			t.Errorf("FormatText(%q) = %q, want %q", raw, got, want)
		}
	}
	for _, raw := range []string{`"short \xE"`, `"bad \xZZ hex"`} {
		if got, ok := FormatText(raw); ok {
			t.Errorf("FormatText(%q) = %q, expected failure", raw, got)
		}
	}
}

func TestParseMealType(t *testing.T) {
	if m, ok := ParseMealType(`"A"`); !ok || m != model.Lunch {
		t.Errorf("A: got %v, %v", m, ok)
	}
	if m, ok := ParseMealType(`"J"`); !ok || m != model.Dinner {
		t.Errorf("J: got %v, %v", m, ok)
	}
	for _, raw := range []string{`"D"`, `""`, "null"} {
		if _, ok := ParseMealType(raw); ok {
			t.Errorf("%s: expected failure", raw)
		}
	}
}

func TestParseWeekday_AllCodes(t *testing.T) {
	want := []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	}
	seen := make(map[time.Weekday]bool)
	for i, w := range want {
		code := string(rune('1' + i))
		got, ok := ParseWeekday(code)
		if !ok {
			t.Fatalf("code %s: expected weekday", code)
		}
		if got != w {
			t.Errorf("code %s: expected %v, got %v", code, w, got)
		}
		seen[got] = true
	}
	if len(seen) != 7 {
		t.Errorf("expected 7 distinct weekdays, got %d", len(seen))
	}
}

func TestParseWeekday_Invalid(t *testing.T) {
	for _, raw := range []string{"0", "8", "", `""`, "null", "-1", "1.0"} {
		if d, ok := ParseWeekday(raw); ok {
			t.Errorf("ParseWeekday(%q) = %v, expected failure", raw, d)
		}
	}
}

func TestDecodeMenu_Lunch(t *testing.T) {
	menu, ok := DecodeMenu(lunchObject)
	if !ok {
		t.Fatal("expected menu")
	}
	if !strings.HasPrefix(menu.Content, "Arroz, feijão") {
		t.Errorf("unexpected content: %q", menu.Content)
	}
	if menu.MealType != model.Lunch {
		t.Errorf("expected lunch, got %v", menu.MealType)
	}
	if menu.Weekday != time.Thursday {
		t.Errorf("expected Thursday, got %v", menu.Weekday)
	}
	if kcal, ok := menu.CalorieCount(); !ok || kcal != 1030 {
		t.Errorf("expected 1030 kcal, got %d, %v", kcal, ok)
	}
	if !strings.HasPrefix(menu.Observation, "Cardápio sujeito a modificação") {
		t.Errorf("unexpected observation: %q", menu.Observation)
	}
}

func TestDecodeMenu_ClosedWithoutCalories(t *testing.T) {
	menu, ok := DecodeMenu(closedObject)
	if !ok {
		t.Fatal("expected menu")
	}
	if !menu.Closed() || menu.Content != "Fechado" {
		t.Errorf("expected closed menu, got %q", menu.Content)
	}
	if menu.MealType != model.Dinner {
		t.Errorf("expected dinner, got %v", menu.MealType)
	}
	if menu.Weekday != time.Sunday {
		t.Errorf("expected Sunday, got %v", menu.Weekday)
	}
	if menu.Calories != nil {
		t.Errorf("expected no calorie count, got %d", *menu.Calories)
	}
}

func TestDecodeMenu_InvalidRecords(t *testing.T) {
	invalidMealType := strings.Replace(lunchObject, `tiprfi:"A"`, `tiprfi:"D"`, 1)
	invalidCalories := strings.Replace(lunchObject, "vlrclorfi:1030", "vlrclorfi:-5", 1)
	missingWeekday := strings.Replace(lunchObject, "diasemana:5,", "", 1)

	for name, object := range map[string]string{
		"garbage":         "teste claramente errado",
		"meal type D":     invalidMealType,
		"negative kcal":   invalidCalories,
		"missing weekday": missingWeekday,
		"restaurant":      restaurantObject,
	} {
		if _, ok := DecodeMenu(object); ok {
			t.Errorf("%s: expected decode failure", name)
		}
	}
}

func TestDecodeMenu_NullTextFields(t *testing.T) {
	const record = `cdpdia:"Sopa",diasemana:2,obscdpsmn:null,tiprfi:"J",vlrclorfi:0`
	menu, ok := DecodeMenu(record)
	if !ok {
		t.Fatal("expected menu with null observation")
	}
	if menu.Content != "Sopa" || menu.Observation != "" {
		t.Errorf("unexpected menu: %+v", menu)
	}

	if _, ok := DecodeMenu(`cdpdia:null,diasemana:2,obscdpsmn:null,tiprfi:"J",vlrclorfi:0`); ok {
		t.Error("expected a null menu to reject the record")
	}
}

func TestDecodeMenus_SkipsBadRecords(t *testing.T) {
	bad := strings.Replace(lunchObject, `tiprfi:"A"`, `tiprfi:"D"`, 1)
	menus, dropped, err := DecodeMenus(reply(lunchObject, bad, closedObject))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(menus) != 2 {
		t.Fatalf("expected 2 menus, got %d", len(menus))
	}
	if dropped != 1 {
		t.Errorf("expected 1 dropped record, got %d", dropped)
	}
	if menus[0].MealType != model.Lunch || menus[1].MealType != model.Dinner {
		t.Errorf("unexpected order: %v, %v", menus[0].MealType, menus[1].MealType)
	}
}

func TestDecodeMenus_NoObjects(t *testing.T) {
	if _, _, err := DecodeMenus("//#DWR-REPLY\nhandleCallback(\"0\",\"a\",[]);"); err != ErrNoObjects {
		t.Errorf("expected ErrNoObjects, got %v", err)
	}
}

func TestDecodeRestaurantName(t *testing.T) {
	name, err := DecodeRestaurantName(reply(restaurantObject))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Restaurante Central" {
		t.Errorf("unexpected name: %q", name)
	}

	if _, err := DecodeRestaurantName(reply(closedObject)); err != ErrNoName {
		t.Errorf("expected ErrNoName for null name, got %v", err)
	}
	if _, err := DecodeRestaurantName("throw 'x';"); err != ErrNoObjects {
		t.Errorf("expected ErrNoObjects, got %v", err)
	}
}
