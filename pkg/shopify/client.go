// Package shopify wraps the commerce platform's Storefront GraphQL API
// for the calls the booking flow needs: product catalog reads, store
// info and cart creation for checkout hand-off.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the Storefront GraphQL endpoint of one store
type Client struct {
	storeDomain     string
	storefrontToken string
	apiVersion      string
	client          *http.Client
}

// Config holds store credentials for the client
type Config struct {
	StoreDomain     string // e.g. my-store.myshopify.com
	StorefrontToken string
	APIVersion      string
}

// NewClient creates a client for one store
func NewClient(config Config) *Client {
	return &Client{
		storeDomain:     config.StoreDomain,
		storefrontToken: config.StorefrontToken,
		apiVersion:      config.APIVersion,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Money is a Storefront API price value
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Image is a product image
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

// Variant is a purchasable product variant
type Variant struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price Money  `json:"price"`
}

// Product is a catalog product. Variants and Images are populated only by
// the single-product lookup.
type Product struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Handle        string    `json:"handle"`
	Description   string    `json:"description"`
	MinPrice      Money     `json:"minPrice"`
	FeaturedImage *Image    `json:"featuredImage,omitempty"`
	Variants      []Variant `json:"variants,omitempty"`
	Images        []Image   `json:"images,omitempty"`
}

// StoreInfo is the public shop identity
type StoreInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LineAttribute is a custom key/value attached to a cart line. The booking
// flow uses these to carry the trip itinerary through checkout.
type LineAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CartLineInput is one requested cart line
type CartLineInput struct {
	MerchandiseID string          `json:"merchandiseId"`
	Quantity      int             `json:"quantity"`
	Attributes    []LineAttribute `json:"attributes,omitempty"`
}

// CartLine is one line of a created cart
type CartLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// Cart is a created cart ready for checkout hand-off
type Cart struct {
	ID          string     `json:"id"`
	CheckoutURL string     `json:"checkoutUrl"`
	Lines       []CartLine `json:"lines"`
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

func (c *Client) storefrontEndpoint() string {
	return fmt.Sprintf("https://%s/api/%s/graphql.json", c.storeDomain, c.apiVersion)
}

// storefrontFetch runs a query against the Storefront API
func (c *Client) storefrontFetch(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.storefrontEndpoint(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build GraphQL request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.storefrontToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("commerce API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("commerce API returned %s", resp.Status)
	}

	var gqlResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("failed to decode GraphQL response: %w", err)
	}
	if len(gqlResp.Errors) > 0 {
		return fmt.Errorf("GraphQL error: %s", gqlResp.Errors[0].Message)
	}

	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("failed to decode GraphQL data: %w", err)
	}
	return nil
}

// GetStoreInfo fetches the public shop identity
func (c *Client) GetStoreInfo(ctx context.Context) (*StoreInfo, error) {
	query := `
		query {
			shop {
				name
				description
			}
		}`

	var data struct {
		Shop StoreInfo `json:"shop"`
	}
	if err := c.storefrontFetch(ctx, query, nil, &data); err != nil {
		return nil, err
	}
	return &data.Shop, nil
}

// GetProducts fetches up to first catalog products
func (c *Client) GetProducts(ctx context.Context, first int) ([]Product, error) {
	query := `
		query ($first: Int!) {
			products(first: $first) {
				edges {
					node {
						id
						title
						handle
						description
						priceRange {
							minVariantPrice {
								amount
								currencyCode
							}
						}
						featuredImage {
							url
							altText
						}
					}
				}
			}
		}`

	var data struct {
		Products struct {
			Edges []struct {
				Node struct {
					ID          string `json:"id"`
					Title       string `json:"title"`
					Handle      string `json:"handle"`
					Description string `json:"description"`
					PriceRange  struct {
						MinVariantPrice Money `json:"minVariantPrice"`
					} `json:"priceRange"`
					FeaturedImage *Image `json:"featuredImage"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := c.storefrontFetch(ctx, query, map[string]interface{}{"first": first}, &data); err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(data.Products.Edges))
	for _, edge := range data.Products.Edges {
		node := edge.Node
		products = append(products, Product{
			ID:            node.ID,
			Title:         node.Title,
			Handle:        node.Handle,
			Description:   node.Description,
			MinPrice:      node.PriceRange.MinVariantPrice,
			FeaturedImage: node.FeaturedImage,
		})
	}
	return products, nil
}

// GetProductByHandle fetches one product with variants and images.
// Returns nil when the handle does not exist.
func (c *Client) GetProductByHandle(ctx context.Context, handle string) (*Product, error) {
	query := `
		query ($handle: String!) {
			productByHandle(handle: $handle) {
				id
				title
				handle
				description
				priceRange {
					minVariantPrice {
						amount
						currencyCode
					}
				}
				variants(first: 100) {
					edges {
						node {
							id
							title
							price {
								amount
								currencyCode
							}
						}
					}
				}
				images(first: 10) {
					edges {
						node {
							url
							altText
						}
					}
				}
			}
		}`

	var data struct {
		ProductByHandle *struct {
			ID          string `json:"id"`
			Title       string `json:"title"`
			Handle      string `json:"handle"`
			Description string `json:"description"`
			PriceRange  struct {
				MinVariantPrice Money `json:"minVariantPrice"`
			} `json:"priceRange"`
			Variants struct {
				Edges []struct {
					Node Variant `json:"node"`
				} `json:"edges"`
			} `json:"variants"`
			Images struct {
				Edges []struct {
					Node Image `json:"node"`
				} `json:"edges"`
			} `json:"images"`
		} `json:"productByHandle"`
	}
	if err := c.storefrontFetch(ctx, query, map[string]interface{}{"handle": handle}, &data); err != nil {
		return nil, err
	}
	if data.ProductByHandle == nil {
		return nil, nil
	}

	node := data.ProductByHandle
	product := &Product{
		ID:          node.ID,
		Title:       node.Title,
		Handle:      node.Handle,
		Description: node.Description,
		MinPrice:    node.PriceRange.MinVariantPrice,
	}
	for _, edge := range node.Variants.Edges {
		product.Variants = append(product.Variants, edge.Node)
	}
	for _, edge := range node.Images.Edges {
		product.Images = append(product.Images, edge.Node)
	}
	return product, nil
}

// CreateCart creates a cart from the given lines and returns the checkout
// hand-off URL. Line attributes carry the booking itinerary through
// checkout so the order webhook can recover it.
func (c *Client) CreateCart(ctx context.Context, lines []CartLineInput) (*Cart, error) {
	query := `
		mutation ($input: CartInput!) {
			cartCreate(input: $input) {
				cart {
					id
					checkoutUrl
					lines(first: 100) {
						edges {
							node {
								id
								quantity
							}
						}
					}
				}
			}
		}`

	lineInputs := make([]map[string]interface{}, 0, len(lines))
	for _, line := range lines {
		input := map[string]interface{}{
			"merchandiseId": line.MerchandiseID,
			"quantity":      line.Quantity,
		}
		if len(line.Attributes) > 0 {
			attrs := make([]map[string]string, 0, len(line.Attributes))
			for _, attr := range line.Attributes {
				attrs = append(attrs, map[string]string{"key": attr.Key, "value": attr.Value})
			}
			input["attributes"] = attrs
		}
		lineInputs = append(lineInputs, input)
	}

	var data struct {
		CartCreate struct {
			Cart *struct {
				ID          string `json:"id"`
				CheckoutURL string `json:"checkoutUrl"`
				Lines       struct {
					Edges []struct {
						Node CartLine `json:"node"`
					} `json:"edges"`
				} `json:"lines"`
			} `json:"cart"`
		} `json:"cartCreate"`
	}
	variables := map[string]interface{}{
		"input": map[string]interface{}{"lines": lineInputs},
	}
	if err := c.storefrontFetch(ctx, query, variables, &data); err != nil {
		return nil, err
	}
	if data.CartCreate.Cart == nil {
		return nil, fmt.Errorf("cart creation returned no cart")
	}

	cart := &Cart{
		ID:          data.CartCreate.Cart.ID,
		CheckoutURL: data.CartCreate.Cart.CheckoutURL,
	}
	for _, edge := range data.CartCreate.Cart.Lines.Edges {
		cart.Lines = append(cart.Lines, edge.Node)
	}
	return cart, nil
}
