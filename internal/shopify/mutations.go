package shopify

// FileUpdateMutation links existing Files (uploaded media) to products
const FileUpdateMutation = `
mutation fileUpdate($input: [FileUpdateInput!]!) {
  fileUpdate(files: $input) {
    files {
      id
      fileStatus
    }
    userErrors {
      field
      message
    }
  }
}
`

// FileUpdateInput references one file and the resources it should be attached to
type FileUpdateInput struct {
	ID              string   `json:"id"`
	ReferencesToAdd []string `json:"referencesToAdd"`
}
