package asm

import (
	"encoding/json"
	"sort"
)

// ParseGroups parses the group document (a flat "group name" → ["mnemonic",
// …] mapping) and returns the group list, sorted by group name, and the
// mnemonic-to-group mapping. No mnemonic may legitimately appear under two
// groups; if the input violates that (the caller's contract says it won't),
// the group whose name sorts last deterministically overwrites the earlier
// assignment — encoding/json's map decoding does not keep key order, so
// groups are visited in sorted name order, not the document's textual order.
func ParseGroups(data []byte) (groupList []string, mnemonicToGroup map[string]string, err error) {
	var doc map[string][]string
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, newParseError("malformed group document: %v", err)
	}

	groupList = make([]string, 0, len(doc))
	mnemonicToGroup = make(map[string]string)

	for group := range doc {
		groupList = append(groupList, group)
	}
	sort.Strings(groupList)

	for _, group := range groupList {
		for _, mnemonic := range doc[group] {
			mnemonicToGroup[mnemonic] = group
		}
	}

	return groupList, mnemonicToGroup, nil
}
