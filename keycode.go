package tinyboard

import (
	"fmt"
	"strings"
)

// Keycode is a logical key code. Ordinary keys use HID usage IDs from the
// keyboard page; KeyFn0..KeyFn31 refer to entries of the keymap's action
// table.
type Keycode uint16

const (
	KeyNo           Keycode = 0x00
	KeyA            Keycode = 0x04
	KeyB            Keycode = 0x05
	KeyC            Keycode = 0x06
	KeyD            Keycode = 0x07
	KeyE            Keycode = 0x08
	KeyF            Keycode = 0x09
	KeyG            Keycode = 0x0A
	KeyH            Keycode = 0x0B
	KeyI            Keycode = 0x0C
	KeyJ            Keycode = 0x0D
	KeyK            Keycode = 0x0E
	KeyL            Keycode = 0x0F
	KeyM            Keycode = 0x10
	KeyN            Keycode = 0x11
	KeyO            Keycode = 0x12
	KeyP            Keycode = 0x13
	KeyQ            Keycode = 0x14
	KeyR            Keycode = 0x15
	KeyS            Keycode = 0x16
	KeyT            Keycode = 0x17
	KeyU            Keycode = 0x18
	KeyV            Keycode = 0x19
	KeyW            Keycode = 0x1A
	KeyX            Keycode = 0x1B
	KeyY            Keycode = 0x1C
	KeyZ            Keycode = 0x1D
	Key1            Keycode = 0x1E
	Key2            Keycode = 0x1F
	Key3            Keycode = 0x20
	Key4            Keycode = 0x21
	Key5            Keycode = 0x22
	Key6            Keycode = 0x23
	Key7            Keycode = 0x24
	Key8            Keycode = 0x25
	Key9            Keycode = 0x26
	Key0            Keycode = 0x27
	KeyEnter        Keycode = 0x28
	KeyEsc          Keycode = 0x29
	KeyBackspace    Keycode = 0x2A
	KeyTab          Keycode = 0x2B
	KeySpace        Keycode = 0x2C
	KeyMinus        Keycode = 0x2D
	KeyEqual        Keycode = 0x2E
	KeyLeftBracket  Keycode = 0x2F
	KeyRightBracket Keycode = 0x30
	KeyBackslash    Keycode = 0x31
	KeyNonUSHash    Keycode = 0x32
	KeySemicolon    Keycode = 0x33
	KeyQuote        Keycode = 0x34
	KeyGrave        Keycode = 0x35
	KeyComma        Keycode = 0x36
	KeyDot          Keycode = 0x37
	KeySlash        Keycode = 0x38
	KeyCapsLock     Keycode = 0x39
	KeyF1           Keycode = 0x3A
	KeyF2           Keycode = 0x3B
	KeyF3           Keycode = 0x3C
	KeyF4           Keycode = 0x3D
	KeyF5           Keycode = 0x3E
	KeyF6           Keycode = 0x3F
	KeyF7           Keycode = 0x40
	KeyF8           Keycode = 0x41
	KeyF9           Keycode = 0x42
	KeyF10          Keycode = 0x43
	KeyF11          Keycode = 0x44
	KeyF12          Keycode = 0x45
	KeyPrintScreen  Keycode = 0x46
	KeyScrollLock   Keycode = 0x47
	KeyPause        Keycode = 0x48
	KeyInsert       Keycode = 0x49
	KeyHome         Keycode = 0x4A
	KeyPageUp       Keycode = 0x4B
	KeyDelete       Keycode = 0x4C
	KeyEnd          Keycode = 0x4D
	KeyPageDown     Keycode = 0x4E
	KeyRight        Keycode = 0x4F
	KeyLeft         Keycode = 0x50
	KeyDown         Keycode = 0x51
	KeyUp           Keycode = 0x52
	KeyLeftCtrl     Keycode = 0xE0
	KeyLeftShift    Keycode = 0xE1
	KeyLeftAlt      Keycode = 0xE2
	KeyLeftGUI      Keycode = 0xE3
	KeyRightCtrl    Keycode = 0xE4
	KeyRightShift   Keycode = 0xE5
	KeyRightAlt     Keycode = 0xE6
	KeyRightGUI     Keycode = 0xE7

	KeyFn0  Keycode = 0xC0
	KeyFn31 Keycode = 0xDF
)

// Fn returns the sentinel keycode referring to action i.
func Fn(i int) Keycode {
	if i < 0 || i > int(KeyFn31-KeyFn0) {
		return KeyNo
	}
	return KeyFn0 + Keycode(i)
}

// IsFn reports whether k refers to the action table.
func (k Keycode) IsFn() bool { return k >= KeyFn0 && k <= KeyFn31 }

// FnIndex returns the action index of an Fn keycode, or -1.
func (k Keycode) FnIndex() int {
	if !k.IsFn() {
		return -1
	}
	return int(k - KeyFn0)
}

func (k Keycode) String() string {
	if k.IsFn() {
		return fmt.Sprintf("FN%d", k.FnIndex())
	}
	if n, ok := keycodeNames[k]; ok {
		return n
	}
	return fmt.Sprintf("0x%02X", uint16(k))
}

// ParseKeycode accepts the symbolic names used in keymap files: "A", "1",
// "ESC", "LSHIFT", "FN0", with an optional "KC_" prefix. "NO" and "_" are
// KeyNo.
func ParseKeycode(name string) (Keycode, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "KC_")
	if n == "_" || n == "NO" {
		return KeyNo, nil
	}
	if strings.HasPrefix(n, "FN") {
		var i int
		if _, err := fmt.Sscanf(n, "FN%d", &i); err == nil && fmt.Sprintf("FN%d", i) == n {
			if k := Fn(i); k != KeyNo {
				return k, nil
			}
		}
	}
	if k, ok := keycodeByName[n]; ok {
		return k, nil
	}
	return KeyNo, fmt.Errorf("unknown keycode %q", name)
}

var keycodeNames = map[Keycode]string{
	KeyNo:           "NO",
	KeyA:            "A",
	KeyB:            "B",
	KeyC:            "C",
	KeyD:            "D",
	KeyE:            "E",
	KeyF:            "F",
	KeyG:            "G",
	KeyH:            "H",
	KeyI:            "I",
	KeyJ:            "J",
	KeyK:            "K",
	KeyL:            "L",
	KeyM:            "M",
	KeyN:            "N",
	KeyO:            "O",
	KeyP:            "P",
	KeyQ:            "Q",
	KeyR:            "R",
	KeyS:            "S",
	KeyT:            "T",
	KeyU:            "U",
	KeyV:            "V",
	KeyW:            "W",
	KeyX:            "X",
	KeyY:            "Y",
	KeyZ:            "Z",
	Key1:            "1",
	Key2:            "2",
	Key3:            "3",
	Key4:            "4",
	Key5:            "5",
	Key6:            "6",
	Key7:            "7",
	Key8:            "8",
	Key9:            "9",
	Key0:            "0",
	KeyEnter:        "ENTER",
	KeyEsc:          "ESC",
	KeyBackspace:    "BSPACE",
	KeyTab:          "TAB",
	KeySpace:        "SPACE",
	KeyMinus:        "MINUS",
	KeyEqual:        "EQUAL",
	KeyLeftBracket:  "LBRACKET",
	KeyRightBracket: "RBRACKET",
	KeyBackslash:    "BSLASH",
	KeyNonUSHash:    "NONUS_HASH",
	KeySemicolon:    "SCOLON",
	KeyQuote:        "QUOTE",
	KeyGrave:        "GRAVE",
	KeyComma:        "COMMA",
	KeyDot:          "DOT",
	KeySlash:        "SLASH",
	KeyCapsLock:     "CAPSLOCK",
	KeyF1:           "F1",
	KeyF2:           "F2",
	KeyF3:           "F3",
	KeyF4:           "F4",
	KeyF5:           "F5",
	KeyF6:           "F6",
	KeyF7:           "F7",
	KeyF8:           "F8",
	KeyF9:           "F9",
	KeyF10:          "F10",
	KeyF11:          "F11",
	KeyF12:          "F12",
	KeyPrintScreen:  "PSCREEN",
	KeyScrollLock:   "SCROLLLOCK",
	KeyPause:        "PAUSE",
	KeyInsert:       "INSERT",
	KeyHome:         "HOME",
	KeyPageUp:       "PGUP",
	KeyDelete:       "DELETE",
	KeyEnd:          "END",
	KeyPageDown:     "PGDOWN",
	KeyRight:        "RIGHT",
	KeyLeft:         "LEFT",
	KeyDown:         "DOWN",
	KeyUp:           "UP",
	KeyLeftCtrl:     "LCTRL",
	KeyLeftShift:    "LSHIFT",
	KeyLeftAlt:      "LALT",
	KeyLeftGUI:      "LGUI",
	KeyRightCtrl:    "RCTRL",
	KeyRightShift:   "RSHIFT",
	KeyRightAlt:     "RALT",
	KeyRightGUI:     "RGUI",
}

var keycodeByName = func() map[string]Keycode {
	m := make(map[string]Keycode, len(keycodeNames)+4)
	for k, n := range keycodeNames {
		m[n] = k
	}
	m["BSPC"] = KeyBackspace
	m["ENT"] = KeyEnter
	m["SPC"] = KeySpace
	m["DEL"] = KeyDelete
	return m
}()
