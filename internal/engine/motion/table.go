package motion

// stop marks a transition that ends the current unit before the character.
const stop = -1

// Table columns. Line terminators never reach a table.
const (
	colTab = iota
	colLetter
	colCommon
	colHiragana
	colKatakana
	colHan
	colOther
	numCols
)

func column(c Class) int {
	switch c {
	case ClassTab:
		return colTab
	case ClassLetter:
		return colLetter
	case ClassCommon:
		return colCommon
	case ClassHiragana:
		return colHiragana
	case ClassKatakana:
		return colKatakana
	case ClassHan:
		return colHan
	}
	return colOther
}

type table [][numCols]int8

// Keyboard states: 0 start, 1 letters, 2 punctuation, 3 CJK, 4 blanks.
// Forward a word absorbs the blanks that follow it; backward the blanks
// before the cursor are skipped first.
var keyboardForward = table{
	//    tab letter common hira kata  han other
	0: {4, 1, 2, 3, 3, 3, 4},
	1: {4, 1, stop, stop, stop, stop, 4},
	2: {4, stop, 2, stop, stop, stop, 4},
	3: {4, stop, stop, 3, 3, 3, 4},
	4: {4, stop, stop, stop, stop, stop, 4},
}

var keyboardBackward = table{
	0: {4, 1, 2, 3, 3, 3, 4},
	1: {stop, 1, stop, stop, stop, stop, stop},
	2: {stop, stop, 2, stop, stop, stop, stop},
	3: {stop, stop, stop, 3, 3, 3, stop},
	4: {4, 1, 2, 3, 3, 3, 4},
}

// Mouse states: 0 start, 1 letters, 2 punctuation, 3 Han, 4 Hiragana,
// 5 Katakana, 6 blanks, 7 tab. A tab is always a unit by itself. Han
// followed by Hiragana is one word, so the forward table lets 3 move to 4
// and the backward table lets 4 move to 3.
var mouseForward = table{
	0: {7, 1, 2, 4, 5, 3, 6},
	1: {stop, 1, stop, stop, stop, stop, stop},
	2: {stop, stop, 2, stop, stop, stop, stop},
	3: {stop, stop, stop, 4, stop, 3, stop},
	4: {stop, stop, stop, 4, stop, stop, stop},
	5: {stop, stop, stop, stop, 5, stop, stop},
	6: {stop, stop, stop, stop, stop, stop, 6},
	7: {stop, stop, stop, stop, stop, stop, stop},
}

var mouseBackward = table{
	0: {7, 1, 2, 4, 5, 3, 6},
	1: {stop, 1, stop, stop, stop, stop, stop},
	2: {stop, stop, 2, stop, stop, stop, stop},
	3: {stop, stop, stop, stop, stop, 3, stop},
	4: {stop, stop, stop, 4, stop, 3, stop},
	5: {stop, stop, stop, stop, 5, stop, stop},
	6: {stop, stop, stop, stop, stop, stop, 6},
	7: {stop, stop, stop, stop, stop, stop, stop},
}
