package badger

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/poiesic/vitae/core"
)

// Key prefixes for different data types. Every key is prefix:segment[:segment],
// so scans always use the prefix plus its trailing colon.
const (
	cvPrefix            = "cv"
	cvUserPrefix        = "cvusr"
	cvIDSeq             = "seq:cv"
	categoryPrefix      = "cat"
	categoryNamePrefix  = "catnm"
	categoryCVPrefix    = "catcv"
	categoryMaxPrefix   = "catmax"
	categoryIDSeq       = "seq:cat"
	entryPrefix         = "ent"
	entryCategoryPrefix = "entcat"
	entryCVPrefix       = "entcv"
	entryTitleKeyPrefix = "entkey"
	entryMaxPrefix      = "entmax"
	entryIDSeq          = "seq:ent"
	pendingPrefix       = "pen"
	pendingUserPrefix   = "penusr"
	pendingKeyPrefix    = "penkey"
	pendingIDSeq        = "seq:pen"
	profilePrefix       = "prof"
	taskPrefix          = "task"
	creditPrefix        = "cred"
	creditLogPrefix     = "credlog"
	creditLogSeq        = "seq:debit"
)

// seg escapes a free-form key segment so it can never contain a separator.
func seg(s string) string {
	return url.QueryEscape(s)
}

// ord formats a number so lexicographic key order matches numeric order.
func ord(n uint64) string {
	return fmt.Sprintf("%020d", n)
}

func scanKey(prefix string, parts ...string) []byte {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte(':')
	for _, p := range parts {
		b.WriteString(p)
		b.WriteByte(':')
	}
	return []byte(b.String())
}

func makeCVKey(id core.ID) []byte {
	return []byte(cvPrefix + ":" + ord(uint64(id)))
}

func makeCVUserKey(userID core.UserID) []byte {
	return []byte(cvUserPrefix + ":" + seg(string(userID)))
}

func makeCategoryKey(id core.ID) []byte {
	return []byte(categoryPrefix + ":" + ord(uint64(id)))
}

// makeCategoryNameKey indexes categories by lowercased name within a CV.
func makeCategoryNameKey(cvID core.ID, name string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", categoryNamePrefix, ord(uint64(cvID)), seg(strings.ToLower(strings.TrimSpace(name)))))
}

func makeCategoryCVKey(cvID, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", categoryCVPrefix, ord(uint64(cvID)), ord(uint64(id))))
}

// makeCategoryMaxKey holds the highest display order handed out in a CV.
func makeCategoryMaxKey(cvID core.ID) []byte {
	return []byte(categoryMaxPrefix + ":" + ord(uint64(cvID)))
}

func makeEntryKey(id core.ID) []byte {
	return []byte(entryPrefix + ":" + ord(uint64(id)))
}

func makeEntryCategoryKey(categoryID, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", entryCategoryPrefix, ord(uint64(categoryID)), ord(uint64(id))))
}

func makeEntryCVKey(cvID, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", entryCVPrefix, ord(uint64(cvID)), ord(uint64(id))))
}

// makeEntryTitleKey maps a title key within a CV to the IDs holding it.
func makeEntryTitleKey(cvID core.ID, titleKey string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", entryTitleKeyPrefix, ord(uint64(cvID)), seg(titleKey)))
}

// makeEntryMaxKey holds the highest display order handed out in a category.
func makeEntryMaxKey(categoryID core.ID) []byte {
	return []byte(entryMaxPrefix + ":" + ord(uint64(categoryID)))
}

func makePendingKey(id core.ID) []byte {
	return []byte(pendingPrefix + ":" + ord(uint64(id)))
}

func makePendingUserKey(userID core.UserID, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", pendingUserPrefix, seg(string(userID)), ord(uint64(id))))
}

func makePendingTitleKey(userID core.UserID, titleKey string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", pendingKeyPrefix, seg(string(userID)), seg(titleKey)))
}

func makeProfileKey(userID core.UserID) []byte {
	return []byte(profilePrefix + ":" + seg(string(userID)))
}

func makeTaskKey(id string) []byte {
	return []byte(taskPrefix + ":" + seg(id))
}

func makeCreditKey(userID core.UserID) []byte {
	return []byte(creditPrefix + ":" + seg(string(userID)))
}

func makeCreditLogKey(userID core.UserID, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", creditLogPrefix, seg(string(userID)), ord(seq)))
}

// encodeIDs packs a sorted ID list into an index value.
func encodeIDs(ids []core.ID) []byte {
	size := 0
	for _, id := range ids {
		size += core.IDMUS.Size(id)
	}
	buf := make([]byte, size)
	n := 0
	for _, id := range ids {
		n += core.IDMUS.Marshal(id, buf[n:])
	}
	return buf
}

func decodeIDs(data []byte) ([]core.ID, error) {
	var ids []core.ID
	for len(data) > 0 {
		id, n, err := core.IDMUS.Unmarshal(data)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
		data = data[n:]
	}
	return ids, nil
}

func insertID(ids []core.ID, id core.ID) []core.ID {
	pos, found := slices.BinarySearch(ids, id)
	if found {
		return ids
	}
	return slices.Insert(ids, pos, id)
}

func removeID(ids []core.ID, id core.ID) []core.ID {
	pos, found := slices.BinarySearch(ids, id)
	if !found {
		return ids
	}
	return slices.Delete(ids, pos, pos+1)
}
