package extraction

import "fmt"

// buildExtractionPrompt renders the structured-extraction instructions for a
// receipt's raw text. The prompt covers retail receipts, service invoices,
// and usage-based cloud/SaaS bills.
func buildExtractionPrompt(receiptText string) string {
	return fmt.Sprintf(`Extract structured data from the receipt or invoice below.

========================
OUTPUT FORMAT (STRICT)
========================
Return ONLY valid JSON. Do NOT add explanations. Do NOT add markdown.
Use null if a value is truly missing.

========================
HEADER FIELDS
========================
Extract the following under "header":
- "Number of days": number of days the product, stay, or service covers,
  derived from the document dates. If not determinable, return 1.
- "GST Number" (synonyms: GSTIN, GST No)
- "Receipt Number" (synonyms: Invoice Number, Bill Number)
- "Document Type": one of Receipt | Invoice | Bill
- "Date" (synonyms: Receipt Date, Invoice Date, Date of Issue)
- "Vendor Name" (synonyms: Issued By, Seller, Service Provider)
- "Buyer Name" (synonyms: Billed To, Customer, Client)
- "Vendor Address": address near the Issued By / Seller section
- "Bill Type": one of Food | Travel | Accommodation | Education | Utilities | IT | Cloud | SaaS | Corporate | Other
- "Total Amount" (synonyms: Total Payable, Grand Total)
- "Tax Amount": if CGST/SGST/IGST are present, return their SUM.

========================
LINE ITEMS
========================
Extract "line_items" as a list. Each line item must include:
- description
- quantity (number or null)
- unit_price (number or null)
- total_amount (number or null)

IMPORTANT FOR CLOUD / IT RECEIPTS:
- Usage-based rows (EC2 hours, data transfer, metrics) ARE valid line items.
- Quantity may be usage units (hours, GB, TB-month).
- If only a total amount is shown, set unit_price = null.
- AWS, Azure, GCP receipts MUST be classified as Bill Type "IT" or "Cloud".
- Do NOT ignore service usage tables.

========================
INPUT DOCUMENT
========================
Receipt Text:
%s
`, receiptText)
}
