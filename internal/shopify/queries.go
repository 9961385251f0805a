package shopify

// ShopQuery reads basic shop info; used to check credentials
const ShopQuery = `
query {
  shop {
    name
    myshopifyDomain
    primaryDomain {
      host
    }
  }
}
`
