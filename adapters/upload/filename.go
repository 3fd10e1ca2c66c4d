package upload

import (
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultAllowedExtensions 為允許上傳的圖片副檔名
var DefaultAllowedExtensions = []string{"png", "jpg", "jpeg", "gif"}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename 移除路徑與不安全的字元，只留下可以直接寫入磁碟的檔名
//   - unicode 先做相容分解，再丟棄非 ASCII 字元
//   - 路徑分隔符號視為空白，空白以底線連接
//   - 去除開頭與結尾的 . 和 _，避免隱藏檔或 ..
//
// 可能回傳空字串，呼叫端必須檢查
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	var b strings.Builder
	for _, r := range name {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(b.String())
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// Extension 回傳小寫且不含 . 的副檔名
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}
