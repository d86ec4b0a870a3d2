package mailbox

import (
	"strings"

	"github.com/emersion/go-imap"

	"github.com/brandon/mcp-mailbox/pkg/types"
)

// BuildFolderTree arranges a flat LIST response into the folder hierarchy.
// Node names are full paths; a child's path is its parent path joined with
// the folder's own delimiter. Server order is preserved, and intermediate
// folders the server did not list are synthesized so the tree stays
// connected.
func BuildFolderTree(infos []*imap.MailboxInfo) []*types.Folder {
	var roots []*types.Folder
	index := make(map[string]*types.Folder)

	for _, info := range infos {
		segments := []string{info.Name}
		if info.Delimiter != "" {
			segments = strings.Split(info.Name, info.Delimiter)
		}

		path := ""
		var parent *types.Folder
		for _, segment := range segments {
			if path == "" {
				path = segment
			} else {
				path = path + info.Delimiter + segment
			}

			node, ok := index[path]
			if !ok {
				node = &types.Folder{
					Name:      path,
					Delimiter: info.Delimiter,
				}
				index[path] = node
				if parent == nil {
					roots = append(roots, node)
				} else {
					parent.Children = append(parent.Children, node)
				}
			}
			parent = node
		}

		// The listed folder itself carries the attributes.
		if node := index[info.Name]; node != nil {
			node.Attributes = append([]string{}, info.Attributes...)
		}
	}

	return roots
}
