package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/storage"
)

const productsByStallIndex = "stall_id-index"

// CreateProduct stores a product, checking in the same transaction that its stall exists.
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	productAV, err := attributevalue.MarshalMap(product)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				ConditionCheck: &types.ConditionCheck{
					TableName: aws.String(s.Tables.Accounts),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: product.StallID},
					},
					ConditionExpression: aws.String("#role = :stall"),
					ExpressionAttributeNames: map[string]string{
						"#role": "role",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":stall": &types.AttributeValueMemberS{Value: string(models.RoleStall)},
					},
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(s.Tables.Products),
					Item:                productAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
		},
	}

	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		if codes, ok := cancellationCodes(err); ok {
			if codeAt(codes, 0) == codeConditionalCheckFailed {
				return nil, fmt.Errorf("stall %s: %w", product.StallID, storage.ErrNotAStall)
			}
			if codeAt(codes, 1) == codeConditionalCheckFailed {
				return nil, fmt.Errorf("product %s: %w", product.ID, storage.ErrAlreadyExists)
			}
		}
		return nil, fmt.Errorf("failed to create product in DynamoDB: %w", err)
	}

	return product, nil
}

// GetProduct retrieves a product by id.
func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Products),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get product from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("product %s: %w", id, storage.ErrNotFound)
	}

	var product models.Product
	if err := attributevalue.UnmarshalMap(result.Item, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}

	return &product, nil
}

// ListProductsByStall retrieves a stall's menu.
func (s *Store) ListProductsByStall(ctx context.Context, stallID string) ([]models.Product, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Products),
		IndexName:              aws.String(productsByStallIndex),
		KeyConditionExpression: aws.String("stall_id = :stall_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":stall_id": &types.AttributeValueMemberS{Value: stallID},
		},
	}

	items, err := s.queryAll(ctx, input, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by stall: %w", err)
	}

	var products []models.Product
	if err := attributevalue.UnmarshalListOfMaps(items, &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products: %w", err)
	}

	return products, nil
}

// ListProducts retrieves the whole catalog.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	items, err := s.scanAll(ctx, &dynamodb.ScanInput{TableName: aws.String(s.Tables.Products)})
	if err != nil {
		return nil, fmt.Errorf("failed to scan products table: %w", err)
	}

	var products []models.Product
	if err := attributevalue.UnmarshalListOfMaps(items, &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products: %w", err)
	}

	return products, nil
}
